package workbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jakechorley/exam-invigilation/pkg/core/model"
)

// Header names and the aliases accepted for each
var (
	teacherFields = map[string][]string{
		"Name":     {"Name", "Teacher", "이름", "교사"},
		"Subjects": {"Subjects", "Subject", "과목"},
		"Homeroom": {"Homeroom", "담임"},
	}
	timetableFields = map[string][]string{
		"Grade":   {"Grade", "학년"},
		"Period":  {"Period", "교시"},
		"Subject": {"Subject", "과목"},
	}
	exclusionFields = map[string][]string{
		"Teacher": {"Teacher", "Name", "이름", "교사"},
		"Grade":   {"Grade", "학년"},
		"Period":  {"Period", "교시"},
	}
)

// Headers written to generated workbooks
var (
	TeacherHeaders   = []string{"Name", "Subjects", "Homeroom"}
	TimetableHeaders = []string{"Grade", "Period", "Subject"}
	ExclusionHeaders = []string{"Teacher", "Grade", "Period"}
)

// Homeroom is optional in the teacher sheet
var optionalFields = map[string]bool{"Homeroom": true}

var gradePattern = regexp.MustCompile(`\d+`)

// ListTeachers reads the teacher roster sheet
func (c *Client) ListTeachers() ([]model.TeacherRecord, error) {
	rows, err := c.GetRows(c.sheets.Teachers)
	if err != nil {
		return nil, err
	}
	return parseTeachers(rows)
}

// ListTimetable reads the timetable sheet
func (c *Client) ListTimetable() ([]model.TimetableEntry, error) {
	rows, err := c.GetRows(c.sheets.Timetable)
	if err != nil {
		return nil, err
	}
	return parseTimetable(rows)
}

// ListExclusions reads the exclusions sheet. A workbook without one has no exclusions.
func (c *Client) ListExclusions() ([]model.ExclusionRecord, error) {
	if !c.HasSheet(c.sheets.Exclusions) {
		return []model.ExclusionRecord{}, nil
	}
	rows, err := c.GetRows(c.sheets.Exclusions)
	if err != nil {
		return nil, err
	}
	return parseExclusions(rows)
}

// rowReader resolves header positions once and reads fields by name
type rowReader map[string]int

func newRowReader(raw [][]string, fields map[string][]string) (rowReader, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headerRow := raw[0]
	indexes := make(rowReader)
	for field, aliases := range fields {
		index := -1
		for i, cell := range headerRow {
			if matchesAlias(cell, aliases) {
				index = i
				break
			}
		}
		if index == -1 {
			if optionalFields[field] {
				continue
			}
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		indexes[field] = index
	}
	return indexes, nil
}

func matchesAlias(cell string, aliases []string) bool {
	cell = strings.TrimSpace(cell)
	for _, alias := range aliases {
		if strings.EqualFold(cell, alias) {
			return true
		}
	}
	return false
}

func (r rowReader) get(field string, row []string) string {
	index, ok := r[field]
	if !ok || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func parseTeachers(raw [][]string) ([]model.TeacherRecord, error) {
	reader, err := newRowReader(raw, teacherFields)
	if err != nil {
		return nil, fmt.Errorf("failed to parse teacher sheet: %w", err)
	}

	teachers := make([]model.TeacherRecord, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := reader.get("Name", row)
		// Skip empty rows (rows with no name)
		if name == "" {
			continue
		}

		teachers = append(teachers, model.TeacherRecord{
			Name:     name,
			Subjects: reader.get("Subjects", row),
			Homeroom: reader.get("Homeroom", row),
		})
	}

	return teachers, nil
}

func parseTimetable(raw [][]string) ([]model.TimetableEntry, error) {
	reader, err := newRowReader(raw, timetableFields)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timetable sheet: %w", err)
	}

	entries := make([]model.TimetableEntry, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		gradeCell := reader.get("Grade", row)
		period := reader.get("Period", row)
		if gradeCell == "" && period == "" {
			continue
		}

		grade, err := parseGrade(gradeCell)
		if err != nil {
			return nil, fmt.Errorf("invalid grade in timetable row %d: %w", i+1, err)
		}

		entries = append(entries, model.TimetableEntry{
			Grade:   grade,
			Period:  period,
			Subject: reader.get("Subject", row),
		})
	}

	return entries, nil
}

func parseExclusions(raw [][]string) ([]model.ExclusionRecord, error) {
	reader, err := newRowReader(raw, exclusionFields)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exclusion sheet: %w", err)
	}

	exclusions := make([]model.ExclusionRecord, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		teacher := reader.get("Teacher", row)
		if teacher == "" {
			continue
		}

		grade, err := parseGrade(reader.get("Grade", row))
		if err != nil {
			return nil, fmt.Errorf("invalid grade in exclusion row %d: %w", i+1, err)
		}

		period := reader.get("Period", row)
		if period == "" {
			return nil, fmt.Errorf("missing period in exclusion row %d", i+1)
		}

		exclusions = append(exclusions, model.ExclusionRecord{
			Teacher: teacher,
			Grade:   grade,
			Period:  period,
		})
	}

	return exclusions, nil
}

// parseGrade reads the first number in a grade cell ("1", "1학년", "Grade 1")
func parseGrade(cell string) (int, error) {
	match := gradePattern.FindString(cell)
	if match == "" {
		return 0, fmt.Errorf("no grade number in %q", cell)
	}
	grade, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("cannot parse grade %q: %w", cell, err)
	}
	return grade, nil
}
