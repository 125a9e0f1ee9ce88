package export

import (
	"strconv"

	"github.com/jakechorley/exam-invigilation/pkg/core/model"
)

// Column headers of the two output tables
const (
	HeaderGrade     = "Grade"
	HeaderRoom      = "Room"
	HeaderPeriod    = "Period"
	HeaderSubject   = "Subject"
	HeaderPrimary   = "Primary"
	HeaderSecondary = "Secondary"
	HeaderTeacher   = "Teacher"
	HeaderTotal     = "Total"
)

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string

	// Numeric names the columns holding counts or numbers; everything else is text
	Numeric map[string]bool
}

// AssignmentDataset builds the assignment table
func AssignmentDataset(rows []model.AssignmentRow) Dataset {
	data := Dataset{
		Title:   "Assignments",
		Headers: []string{HeaderGrade, HeaderRoom, HeaderPeriod, HeaderSubject, HeaderPrimary, HeaderSecondary},
		Rows:    make([]map[string]string, 0, len(rows)),
		Numeric: map[string]bool{HeaderGrade: true, HeaderRoom: true},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			HeaderGrade:     strconv.Itoa(row.Grade),
			HeaderRoom:      strconv.Itoa(row.Room),
			HeaderPeriod:    row.Period,
			HeaderSubject:   row.Subject,
			HeaderPrimary:   row.Primary,
			HeaderSecondary: row.Secondary,
		})
	}
	return data
}

// StatisticsDataset builds the per-teacher statistics table
func StatisticsDataset(rows []model.StatisticsRow) Dataset {
	data := Dataset{
		Title:   "Summary",
		Headers: []string{HeaderTeacher, HeaderPrimary, HeaderSecondary, HeaderTotal},
		Rows:    make([]map[string]string, 0, len(rows)),
		Numeric: map[string]bool{HeaderPrimary: true, HeaderSecondary: true, HeaderTotal: true},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			HeaderTeacher:   row.Teacher,
			HeaderPrimary:   strconv.Itoa(row.Primary),
			HeaderSecondary: strconv.Itoa(row.Secondary),
			HeaderTotal:     strconv.Itoa(row.Total),
		})
	}
	return data
}

// Records flattens the dataset into header-ordered records, header row first
func (d Dataset) Records() [][]string {
	records := make([][]string, 0, len(d.Rows)+1)
	records = append(records, append([]string(nil), d.Headers...))
	for _, row := range d.Rows {
		record := make([]string, len(d.Headers))
		for i, header := range d.Headers {
			record[i] = row[header]
		}
		records = append(records, record)
	}
	return records
}
