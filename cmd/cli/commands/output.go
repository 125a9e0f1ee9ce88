package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/pkg/clients/workbook"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
	"github.com/jakechorley/exam-invigilation/pkg/core/services"
	"github.com/jakechorley/exam-invigilation/pkg/export"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// printResult displays the run header, assignment table and statistics
func printResult(result *services.AssignResult) {
	fmt.Printf("\n🎯 Invigilation Assignment\n\n")
	fmt.Printf("Run ID:   %s\n", result.RunID)
	fmt.Printf("Seed:     %d\n", result.Seed)
	fmt.Printf("Attempt:  %d of %d\n", result.ChosenAttempt, result.Attempts)
	if result.Success {
		fmt.Printf("Status:   %s✅ every slot staffed%s\n", colorGreen, colorReset)
	} else {
		fmt.Printf("Status:   %s⚠️  %d unassignable slot(s)%s\n", colorYellow, len(result.Unassignable), colorReset)
	}
	fmt.Println()

	if len(result.ValidationErrors) > 0 {
		fmt.Printf("%s❌ Validation Errors (%d):%s\n", colorRed, len(result.ValidationErrors), colorReset)
		for _, verr := range result.ValidationErrors {
			fmt.Printf("  • Room %s, %s - %s: %s\n", verr.Room, verr.Period, verr.Check, verr.Description)
		}
		fmt.Println()
	}

	printAssignments(result.Assignments)
	printStatistics(result.Statistics)

	fmt.Printf("Spread: %d (min %d, max %d, mean %.2f)\n",
		result.Summary.Spread, result.Summary.MinTotal, result.Summary.MaxTotal, result.Summary.MeanTotal)
	if len(result.Summary.Idle) > 0 {
		fmt.Printf("Idle:   %s\n", strings.Join(result.Summary.Idle, ", "))
	}
	fmt.Println()
}

func printAssignments(rows []model.AssignmentRow) {
	periodWidth, subjectWidth, nameWidth := len("Period"), len("Subject"), len("Secondary")
	for _, row := range rows {
		periodWidth = max(periodWidth, len(row.Period))
		subjectWidth = max(subjectWidth, len(row.Subject))
		nameWidth = max(nameWidth, len(row.Primary), len(row.Secondary))
	}

	fmt.Printf("📅 Assignments:\n\n")
	fmt.Printf("%s%-6s  %-*s  %-*s  %-*s  %s%s\n",
		colorBold, "Room", periodWidth, "Period", subjectWidth, "Subject", nameWidth, "Primary", "Secondary", colorReset)
	fmt.Println(strings.Repeat("-", 6+periodWidth+subjectWidth+2*nameWidth+8))

	for _, row := range rows {
		fmt.Printf("%-6s  %-*s  %-*s  %s  %s\n",
			fmt.Sprintf("%d-%d", row.Grade, row.Room),
			periodWidth, row.Period,
			subjectWidth, row.Subject,
			highlight(row.Primary, nameWidth),
			highlight(row.Secondary, 0))
	}
	fmt.Println()
}

// highlight pads a name to width and colors the unassignable sentinel
func highlight(name string, width int) string {
	padded := name
	if width > 0 {
		padded = fmt.Sprintf("%-*s", width, name)
	}
	if name == model.Unassignable {
		return colorYellow + padded + colorReset
	}
	return padded
}

func printStatistics(rows []model.StatisticsRow) {
	nameWidth := len("Teacher")
	for _, row := range rows {
		nameWidth = max(nameWidth, len(row.Teacher))
	}

	fmt.Printf("📊 Statistics:\n\n")
	fmt.Printf("%s%-*s  %7s  %9s  %5s%s\n", colorBold, nameWidth, "Teacher", "Primary", "Secondary", "Total", colorReset)
	fmt.Println(strings.Repeat("-", nameWidth+29))
	for _, row := range rows {
		fmt.Printf("%-*s  %7d  %9d  %5d\n", nameWidth, row.Teacher, row.Primary, row.Secondary, row.Total)
	}
	fmt.Println()
}

// writeOutputs saves the result to every path, choosing the format by file extension
func writeOutputs(app *AppContext, result *services.AssignResult, paths []string, fontPath string) error {
	assignments := export.AssignmentDataset(result.Assignments)
	statistics := export.StatisticsDataset(result.Statistics)

	for _, path := range paths {
		path = app.OutputPath(path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		var written []string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx":
			if err := workbook.WriteTables(path, assignments, statistics); err != nil {
				return err
			}
			written = append(written, path)

		case ".csv":
			base := strings.TrimSuffix(path, filepath.Ext(path))
			exporter := export.NewCSVExporter()
			for _, table := range []export.Dataset{assignments, statistics} {
				data, err := exporter.Render(table)
				if err != nil {
					return fmt.Errorf("failed to render %s csv: %w", table.Title, err)
				}
				target := fmt.Sprintf("%s_%s.csv", base, strings.ToLower(table.Title))
				if err := os.WriteFile(target, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", target, err)
				}
				written = append(written, target)
			}

		case ".pdf":
			data, err := export.NewPDFExporter(fontPath).Render("Exam Invigilation", assignments, statistics)
			if err != nil {
				return fmt.Errorf("failed to render pdf: %w", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			written = append(written, path)

		default:
			return fmt.Errorf("unsupported output format %q (use .xlsx, .csv or .pdf)", filepath.Ext(path))
		}

		for _, file := range written {
			app.Logger.Info("Wrote output", zap.String("path", file))
			fmt.Printf("💾 Saved %s\n", file)
		}
	}
	return nil
}
