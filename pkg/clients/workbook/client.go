package workbook

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/exam-invigilation/internal/config"
)

// Client reads the input sheets of an exam workbook
type Client struct {
	file   *excelize.File
	sheets config.Sheets
}

// Open opens the workbook at path. The caller must Close it.
func Open(path string, sheets config.Sheets) (*Client, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Client{file: file, sheets: sheets}, nil
}

// Close releases the workbook
func (c *Client) Close() error {
	return c.file.Close()
}

// HasSheet reports whether the workbook contains the named sheet
func (c *Client) HasSheet(name string) bool {
	return slices.Contains(c.file.GetSheetList(), name)
}

// GetRows returns every row of a sheet as strings
func (c *Client) GetRows(sheet string) ([][]string, error) {
	if !c.HasSheet(sheet) {
		return nil, fmt.Errorf("sheet %q not found in workbook", sheet)
	}
	rows, err := c.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
