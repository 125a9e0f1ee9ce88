package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/pkg/core/services"
)

// PreviewCmd creates the preview command
func PreviewCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show which teachers are excluded from each slot, and why",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			onlyProblems, _ := cmd.Flags().GetBool("problems")

			app.Logger.Debug("preview command", zap.Bool("problems", onlyProblems))

			source, err := app.OpenWorkbook()
			if err != nil {
				return err
			}
			defer source.Close()

			previews, err := services.PreviewEligibility(source, app.Cfg, app.Logger)
			if err != nil {
				return fmt.Errorf("preview failed: %w", err)
			}

			fmt.Printf("\n🔎 Slot Eligibility\n\n")

			unstaffable := 0
			for _, preview := range previews {
				if !preview.Staffable {
					unstaffable++
				}
				if onlyProblems && preview.Staffable {
					continue
				}

				status := colorGreen + "✓" + colorReset
				if !preview.Staffable {
					status = colorRed + "✗" + colorReset
				}
				kind := ""
				if preview.Slot.SelfStudy {
					kind = " (self-study)"
				}

				fmt.Printf("%s %s%s %s%s - %s%s\n", status, colorBold, preview.Slot.Room, preview.Slot.Period, colorReset, preview.Slot.Subject, kind)
				fmt.Printf("    eligible (%d): %s\n", len(preview.Eligible), strings.Join(preview.Eligible, ", "))
				for _, excluded := range preview.Excluded {
					fmt.Printf("    excluded: %s [%s]\n", excluded.Name, strings.Join(excluded.Rules, ", "))
				}
			}
			fmt.Println()

			if unstaffable > 0 {
				fmt.Printf("%s⚠️  %d slot(s) can never be staffed with the current exclusions%s\n\n", colorYellow, unstaffable, colorReset)
			} else {
				fmt.Printf("✅ Every slot has enough eligible teachers\n\n")
			}
			return nil
		},
	}

	cmd.Flags().Bool("problems", false, "Only show slots that can never be staffed")

	return cmd
}
