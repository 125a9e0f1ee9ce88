package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
	"github.com/jakechorley/exam-invigilation/pkg/core/timetable"
)

// BuildTimetableTemplate returns one empty-subject timetable entry per (grade, period).
// Periods come from the given labels, or from the exam calendar when none are given.
func BuildTimetableTemplate(cfg *config.Config, periods []string, logger *zap.Logger) ([]model.TimetableEntry, error) {
	if len(periods) == 0 {
		calendarLabels, err := calendarPeriods(cfg)
		if err != nil {
			return nil, err
		}
		if calendarLabels == nil {
			return nil, fmt.Errorf("template needs period labels or an examCalendar in the config")
		}
		periods = calendarLabels
	}

	entries := timetable.Template(cfg.RoomCounts, periods)

	logger.Debug("Built timetable template",
		zap.Int("grades", len(cfg.RoomCounts)),
		zap.Int("periods", len(periods)),
		zap.Int("entries", len(entries)))

	return entries, nil
}
