package services

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/internal/config"
)

// TeacherSummary is one entry of the normalized teacher directory
type TeacherSummary struct {
	Name     string
	Subjects []string
	Homeroom string // "" when the teacher has no homeroom

	// Unavailable lists declared (grade, period) exclusions as "<grade>: <period>", sorted
	Unavailable []string
}

// ListTeachers returns the normalized directory in roster order
func ListTeachers(source RosterSource, cfg *config.Config, logger *zap.Logger) ([]TeacherSummary, error) {
	calendarLabels, err := calendarPeriods(cfg)
	if err != nil {
		return nil, err
	}

	// Without a calendar the periods are only known once a timetable is read
	var periods *knownPeriods
	if calendarLabels != nil {
		periods = &knownPeriods{Labels: calendarLabels, Source: "exam calendar"}
	}

	directory, err := loadDirectory(source, cfg, periods, logger)
	if err != nil {
		return nil, err
	}

	summaries := make([]TeacherSummary, 0, len(directory.Teachers))
	for _, teacher := range directory.Teachers {
		summary := TeacherSummary{
			Name:        teacher.Name,
			Subjects:    teacher.Subjects,
			Unavailable: []string{},
		}
		if teacher.Homeroom != nil {
			summary.Homeroom = teacher.Homeroom.String()
		}
		for session := range teacher.Unavailable {
			summary.Unavailable = append(summary.Unavailable, fmt.Sprintf("%d: %s", session.Grade, session.Period))
		}
		slices.Sort(summary.Unavailable)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
