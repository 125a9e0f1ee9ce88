package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/pkg/clients/workbook"
	"github.com/jakechorley/exam-invigilation/pkg/core/services"
)

// TemplateCmd creates the template command
func TemplateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <output.xlsx>",
		Short: "Write an input workbook with one timetable row per grade and period",
		Long: `Write an input workbook with empty Teachers and Exclusions sheets and a Timetable sheet
holding one row per (grade, period) with the subject left blank.

Periods come from --periods, or from examCalendar in the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periods, _ := cmd.Flags().GetStringSlice("periods")
			force, _ := cmd.Flags().GetBool("force")
			path := app.OutputPath(args[0])

			app.Logger.Debug("template command",
				zap.String("path", path),
				zap.Strings("periods", periods))

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			entries, err := services.BuildTimetableTemplate(app.Cfg, periods, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to build template: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := workbook.WriteTemplate(path, app.Cfg.Sheets, entries); err != nil {
				return err
			}

			fmt.Printf("\n✓ Template written to %s (%d timetable rows)\n\n", path, len(entries))
			return nil
		},
	}

	cmd.Flags().StringSlice("periods", nil, "Period labels, in order (default: from examCalendar)")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")

	return cmd
}
