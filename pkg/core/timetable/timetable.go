package timetable

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
)

// Options controls how a grade-level timetable is fanned out into slots
type Options struct {
	// RoomCounts maps each grade to the number of class sections (rooms) it has
	RoomCounts map[int]int

	// SelfStudyLabels are the subject labels that denote unsupervised self-study
	SelfStudyLabels []string

	// PeriodOrder fixes the period ordering and restricts the allowed labels.
	// When empty, periods are ordered by first appearance and any label is allowed.
	PeriodOrder []string
}

// Expand converts a (grade, period, subject) table into one slot per (room, period).
// Each entry fans out to every section of its grade. Entries with an empty subject
// mean the grade has no exam in that period and produce no slots.
//
// Slots are ordered by period, then grade, then section, and indexed in that order.
//
// Returns an error if:
//   - an entry has no period label
//   - an entry's grade has no configured room count
//   - two entries share the same (grade, period)
//   - a period label is not part of PeriodOrder (when PeriodOrder is set)
func Expand(entries []model.TimetableEntry, opts Options) ([]*allocator.Slot, error) {
	allowed := make(map[string]int, len(opts.PeriodOrder))
	for i, period := range opts.PeriodOrder {
		allowed[period] = i
	}

	seen := make(map[allocator.Session]bool)
	firstSeen := make(map[string]int)
	kept := make([]model.TimetableEntry, 0, len(entries))

	for i, entry := range entries {
		entry.Period = strings.TrimSpace(entry.Period)
		entry.Subject = strings.TrimSpace(entry.Subject)

		if entry.Period == "" {
			return nil, fmt.Errorf("timetable row %d has no period", i+1)
		}

		if _, ok := opts.RoomCounts[entry.Grade]; !ok {
			return nil, fmt.Errorf("timetable row %d: grade %d has no configured room count", i+1, entry.Grade)
		}

		if len(opts.PeriodOrder) > 0 {
			if _, ok := allowed[entry.Period]; !ok {
				return nil, fmt.Errorf("timetable row %d: period %q is not in the exam calendar", i+1, entry.Period)
			}
		}

		session := allocator.Session{Grade: entry.Grade, Period: entry.Period}
		if seen[session] {
			return nil, fmt.Errorf("duplicate timetable entry for grade %d period %q", entry.Grade, entry.Period)
		}
		seen[session] = true

		if _, ok := firstSeen[entry.Period]; !ok {
			firstSeen[entry.Period] = len(firstSeen)
		}

		if entry.Subject == "" {
			continue
		}
		kept = append(kept, entry)
	}

	rank := firstSeen
	if len(opts.PeriodOrder) > 0 {
		rank = allowed
	}

	slices.SortStableFunc(kept, func(a, b model.TimetableEntry) int {
		if rank[a.Period] != rank[b.Period] {
			return rank[a.Period] - rank[b.Period]
		}
		return a.Grade - b.Grade
	})

	slots := make([]*allocator.Slot, 0)
	for _, entry := range kept {
		selfStudy := IsSelfStudy(entry.Subject, opts.SelfStudyLabels)
		for section := 1; section <= opts.RoomCounts[entry.Grade]; section++ {
			slots = append(slots, &allocator.Slot{
				Index:     len(slots),
				Room:      allocator.Room{Grade: entry.Grade, Section: section},
				Period:    entry.Period,
				Subject:   entry.Subject,
				SelfStudy: selfStudy,
			})
		}
	}

	return slots, nil
}

// IsSelfStudy reports whether a subject label denotes self-study.
// Matching is a case-insensitive substring match against each label.
func IsSelfStudy(subject string, labels []string) bool {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return false
	}
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" && strings.Contains(subject, label) {
			return true
		}
	}
	return false
}

// Periods returns the distinct period labels of a timetable in first-appearance order
func Periods(entries []model.TimetableEntry) []string {
	var periods []string
	for _, entry := range entries {
		period := strings.TrimSpace(entry.Period)
		if period != "" && !slices.Contains(periods, period) {
			periods = append(periods, period)
		}
	}
	return periods
}

// Template returns one empty-subject entry per (grade, period), grades ascending within each period
func Template(roomCounts map[int]int, periods []string) []model.TimetableEntry {
	grades := slices.Sorted(maps.Keys(roomCounts))

	entries := make([]model.TimetableEntry, 0, len(grades)*len(periods))
	for _, period := range periods {
		for _, grade := range grades {
			entries = append(entries, model.TimetableEntry{Grade: grade, Period: period})
		}
	}
	return entries
}
