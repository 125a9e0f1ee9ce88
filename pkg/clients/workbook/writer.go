package workbook

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
	"github.com/jakechorley/exam-invigilation/pkg/export"
)

// WriteTables saves each dataset to its own sheet, named after the dataset title
func WriteTables(path string, tables ...export.Dataset) error {
	if len(tables) == 0 {
		return fmt.Errorf("workbook requires at least one table")
	}

	file := excelize.NewFile()
	defer file.Close()

	for i, table := range tables {
		if err := writeSheet(file, i, table.Title, table.Records(), table.Numeric); err != nil {
			return err
		}
	}

	file.SetActiveSheet(0)
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// WriteTemplate saves an input workbook with empty teacher and exclusion sheets and
// a timetable sheet pre-filled with the given (grade, period) entries
func WriteTemplate(path string, sheets config.Sheets, entries []model.TimetableEntry) error {
	timetable := [][]string{TimetableHeaders}
	for _, entry := range entries {
		timetable = append(timetable, []string{strconv.Itoa(entry.Grade), entry.Period, entry.Subject})
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := writeSheet(file, 0, sheets.Teachers, [][]string{TeacherHeaders}, nil); err != nil {
		return err
	}
	if err := writeSheet(file, 1, sheets.Timetable, timetable, map[string]bool{TimetableHeaders[0]: true}); err != nil {
		return err
	}
	if err := writeSheet(file, 2, sheets.Exclusions, [][]string{ExclusionHeaders}, nil); err != nil {
		return err
	}

	file.SetActiveSheet(1)
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template %s: %w", path, err)
	}
	return nil
}

// writeSheet fills sheet number index (renaming the default first sheet) row by row.
// The first record is the header row; whole numbers in the numeric columns are written as numbers.
func writeSheet(file *excelize.File, index int, name string, records [][]string, numeric map[string]bool) error {
	if index == 0 {
		if err := file.SetSheetName(file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", name, err)
		}
	} else if _, err := file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	for r, record := range records {
		cells := make([]interface{}, len(record))
		for c, value := range record {
			cells[c] = value
			if r == 0 || c >= len(records[0]) || !numeric[records[0][c]] {
				continue
			}
			if number, err := strconv.Atoi(value); err == nil {
				cells[c] = number
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", r+1, err)
		}
		if err := file.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", r+1, name, err)
		}
	}
	return nil
}
