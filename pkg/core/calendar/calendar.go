package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the format of exam dates in configuration and output
const DateLayout = "2006-01-02"

// searchWindow bounds rules with neither COUNT nor UNTIL
const searchWindow = 1

// Period is one exam period on one exam day
type Period struct {
	// Day is the 1-based exam day number
	Day  int
	Date time.Time

	// Number is the 1-based period number within the day
	Number int

	Label string
}

// Label returns the canonical period label used in timetables and exclusions
func Label(day, number int) string {
	return fmt.Sprintf("Day %d Period %d", day, number)
}

// Periods expands an exam calendar into its ordered periods.
// Exam days are the occurrences of rule starting at start (inclusive), limited to one year.
func Periods(start time.Time, rule string, periodsPerDay int) ([]Period, error) {
	if periodsPerDay < 1 {
		return nil, fmt.Errorf("periods per day must be at least 1, got %d", periodsPerDay)
	}

	days, err := ExamDays(start, rule)
	if err != nil {
		return nil, err
	}

	periods := make([]Period, 0, len(days)*periodsPerDay)
	for i, date := range days {
		for number := 1; number <= periodsPerDay; number++ {
			periods = append(periods, Period{
				Day:    i + 1,
				Date:   date,
				Number: number,
				Label:  Label(i+1, number),
			})
		}
	}

	return periods, nil
}

// ExamDays returns the dates the rule produces from start
func ExamDays(start time.Time, rule string) ([]time.Time, error) {
	parsed, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exam calendar rrule: %w", err)
	}

	parsed.DTStart(start)
	days := parsed.Between(start, start.AddDate(searchWindow, 0, 0), true)
	if len(days) == 0 {
		return nil, fmt.Errorf("exam calendar rrule %q produces no days after %s", rule, start.Format(DateLayout))
	}

	return days, nil
}

// Labels returns the period labels in calendar order
func Labels(periods []Period) []string {
	labels := make([]string, len(periods))
	for i, period := range periods {
		labels[i] = period.Label
	}
	return labels
}
