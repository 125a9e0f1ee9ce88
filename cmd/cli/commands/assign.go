package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/pkg/core/services"
	"github.com/jakechorley/exam-invigilation/pkg/metrics"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign invigilators to every exam room and period",
		Long: `Read the teacher roster, timetable and exclusions from the workbook, assign a primary and
secondary invigilator to every (room, period) and print the assignment and statistics tables.

Without --seed every run is a fresh re-roll; pass the printed seed back to reproduce a run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetUint64("seed")
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			attempts, _ := cmd.Flags().GetInt("attempts")
			outputs, _ := cmd.Flags().GetStringSlice("out")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")
			fontPath, _ := cmd.Flags().GetString("font")
			strict, _ := cmd.Flags().GetBool("strict")

			app.Logger.Debug("assign command",
				zap.Uint64("seed", seed),
				zap.Int("attempts", attempts),
				zap.Strings("out", outputs),
				zap.Bool("strict", strict))

			source, err := app.OpenWorkbook()
			if err != nil {
				return err
			}
			defer source.Close()

			var recorder *metrics.Recorder
			if metricsFile != "" {
				recorder = metrics.NewRecorder()
			}

			opts := services.AssignOptions{Seed: seed, Attempts: attempts}
			if recorder != nil {
				opts.Recorder = recorder
			}

			result, err := services.AssignInvigilators(app.Ctx, source, app.Cfg, app.Logger, opts)
			if err != nil {
				return fmt.Errorf("assignment failed: %w", err)
			}

			printResult(result)

			if err := writeOutputs(app, result, outputs, fontPath); err != nil {
				return err
			}

			if recorder != nil {
				if err := recorder.WriteTextfile(app.OutputPath(metricsFile)); err != nil {
					return err
				}
				app.Logger.Info("Wrote metrics", zap.String("path", app.OutputPath(metricsFile)))
			}

			if strict && len(result.ValidationErrors) > 0 {
				return fmt.Errorf("assignment has %d validation error(s)", len(result.ValidationErrors))
			}
			return nil
		},
	}

	cmd.Flags().Uint64("seed", 0, "Seed for every random decision (default: time-based)")
	cmd.Flags().Int("attempts", 0, "Independent attempts to run, keeping the best (default: config attempts)")
	cmd.Flags().StringSliceP("out", "o", nil, "Output files (.xlsx, .csv, .pdf), relative to outputDir")
	cmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().String("font", "", "UTF-8 TrueType font for PDF output (needed for Korean names)")
	cmd.Flags().Bool("strict", false, "Exit with an error when the finished assignment fails validation")

	return cmd
}
