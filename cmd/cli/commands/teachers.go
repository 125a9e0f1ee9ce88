package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/pkg/core/services"
)

// TeachersCmd creates the teachers command
func TeachersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "teachers",
		Short: "List the normalized teacher directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("teachers command")

			source, err := app.OpenWorkbook()
			if err != nil {
				return err
			}
			defer source.Close()

			teachers, err := services.ListTeachers(source, app.Cfg, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to list teachers: %w", err)
			}

			app.Logger.Info("Teachers fetched successfully", zap.Int("count", len(teachers)))

			fmt.Printf("\nFound %d teachers:\n\n", len(teachers))
			for _, teacher := range teachers {
				homeroom := ""
				if teacher.Homeroom != "" {
					homeroom = fmt.Sprintf(" [Homeroom: %s]", teacher.Homeroom)
				}
				fmt.Printf("- %s (%s)%s\n", teacher.Name, strings.Join(teacher.Subjects, ", "), homeroom)
				for _, session := range teacher.Unavailable {
					fmt.Printf("    unavailable: grade %s\n", session)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
