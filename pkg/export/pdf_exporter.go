package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0 // A4 landscape minus margins
	bodyFont     = "body"
)

// PDFExporter renders datasets into a tabular landscape PDF, one table per page.
type PDFExporter struct {
	// FontPath is an optional UTF-8 TrueType font; without it Arial is used and
	// characters outside cp1252 are not rendered
	FontPath string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{FontPath: fontPath}
}

// Render creates a PDF document with a page per dataset
func (e *PDFExporter) Render(title string, tables ...Dataset) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("pdf requires at least one table")
	}
	for _, table := range tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("pdf table %q requires at least one header", table.Title)
		}
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	family := "Arial"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if e.FontPath != "" {
		pdf.AddUTF8Font(bodyFont, "", e.FontPath)
		pdf.AddUTF8Font(bodyFont, "B", e.FontPath)
		family = bodyFont
		translate = func(s string) string { return s }
	}

	for _, table := range tables {
		pdf.AddPage()

		pdf.SetFont(family, "B", 14)
		heading := table.Title
		if title != "" {
			heading = title + " - " + table.Title
		}
		pdf.CellFormat(0, 10, translate(heading), "", 1, "C", false, 0, "")
		pdf.Ln(3)

		colWidth := pdfPageWidth / float64(len(table.Headers))

		pdf.SetFont(family, "B", 10)
		for _, header := range table.Headers {
			pdf.CellFormat(colWidth, 8, translate(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(family, "", 9)
		for _, row := range table.Rows {
			for _, header := range table.Headers {
				pdf.CellFormat(colWidth, 7, translate(row[header]), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
