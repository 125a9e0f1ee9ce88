package services

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
	"github.com/jakechorley/exam-invigilation/pkg/core/calendar"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
	"github.com/jakechorley/exam-invigilation/pkg/core/roster"
	"github.com/jakechorley/exam-invigilation/pkg/core/timetable"
)

// RosterSource reads the raw inputs of an assignment run
type RosterSource interface {
	ListTeachers() ([]model.TeacherRecord, error)
	ListTimetable() ([]model.TimetableEntry, error)
	ListExclusions() ([]model.ExclusionRecord, error)
}

// runInputs are the normalized static inputs shared by every attempt of a run
type runInputs struct {
	Directory *roster.Directory
	Slots     []*allocator.Slot

	// Periods in output order
	Periods []string
}

// loadInputs reads, normalizes and cross-checks the roster, timetable and exclusions
func loadInputs(source RosterSource, cfg *config.Config, logger *zap.Logger) (*runInputs, error) {
	calendarLabels, err := calendarPeriods(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching timetable")
	entries, err := source.ListTimetable()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timetable: %w", err)
	}

	periods := knownPeriods{Labels: calendarLabels, Source: "exam calendar"}
	if calendarLabels == nil {
		periods = knownPeriods{Labels: timetable.Periods(entries), Source: "timetable"}
	}

	directory, err := loadDirectory(source, cfg, &periods, logger)
	if err != nil {
		return nil, err
	}

	slots, err := timetable.Expand(entries, timetable.Options{
		RoomCounts:      cfg.RoomCounts,
		SelfStudyLabels: cfg.SelfStudySubjects,
		PeriodOrder:     calendarLabels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand timetable: %w", err)
	}

	logger.Debug("Expanded timetable",
		zap.Int("entries", len(entries)),
		zap.Int("slots", len(slots)),
		zap.Int("periods", len(periods.Labels)))

	return &runInputs{
		Directory: directory,
		Slots:     slots,
		Periods:   periods.Labels,
	}, nil
}

// knownPeriods are the period labels an exclusion may name
type knownPeriods struct {
	Labels []string
	Source string
}

// loadDirectory reads the roster and applies the declared exclusions.
// Homerooms and exclusion grades must be configured rooms; with periods set, every
// exclusion must also name one of them.
func loadDirectory(source RosterSource, cfg *config.Config, periods *knownPeriods, logger *zap.Logger) (*roster.Directory, error) {
	logger.Debug("Fetching teachers")
	records, err := source.ListTeachers()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teachers: %w", err)
	}

	directory, err := roster.Normalize(records)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize roster: %w", err)
	}
	if err := directory.CheckHomerooms(cfg.RoomCounts); err != nil {
		return nil, fmt.Errorf("failed to normalize roster: %w", err)
	}

	logger.Debug("Fetching exclusions")
	exclusions, err := source.ListExclusions()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exclusions: %w", err)
	}

	if err := directory.ApplyExclusions(exclusions); err != nil {
		return nil, fmt.Errorf("failed to apply exclusions: %w", err)
	}
	if err := checkExclusions(exclusions, cfg.RoomCounts, periods); err != nil {
		return nil, fmt.Errorf("failed to apply exclusions: %w", err)
	}

	logger.Debug("Loaded roster",
		zap.Int("teachers", len(directory.Teachers)),
		zap.Int("exclusions", len(exclusions)))

	return directory, nil
}

// checkExclusions rejects exclusions that could never match a slot
func checkExclusions(exclusions []model.ExclusionRecord, roomCounts map[int]int, periods *knownPeriods) error {
	for i, exclusion := range exclusions {
		if roomCounts[exclusion.Grade] == 0 {
			return fmt.Errorf("exclusion %d for %q names grade %d which has no configured rooms", i+1, exclusion.Teacher, exclusion.Grade)
		}
		if periods != nil && !slices.Contains(periods.Labels, strings.TrimSpace(exclusion.Period)) {
			return fmt.Errorf("exclusion %d for %q names period %q which is not in the %s", i+1, exclusion.Teacher, exclusion.Period, periods.Source)
		}
	}
	return nil
}

// calendarPeriods returns the configured calendar's period labels, or nil without a calendar
func calendarPeriods(cfg *config.Config) ([]string, error) {
	if cfg.ExamCalendar == nil {
		return nil, nil
	}

	start, err := cfg.ExamCalendar.StartDate()
	if err != nil {
		return nil, fmt.Errorf("failed to parse exam calendar start: %w", err)
	}

	periods, err := calendar.Periods(start, cfg.ExamCalendar.RRule, cfg.ExamCalendar.PeriodsPerDay)
	if err != nil {
		return nil, fmt.Errorf("failed to build exam calendar: %w", err)
	}
	return calendar.Labels(periods), nil
}
