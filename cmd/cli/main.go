package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/cmd/cli/commands"
	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/utils/logging"
)

var (
	env        string
	configPath string
	logDir     string
	verbose    bool
	app        = &commands.AppContext{}
)

func main() {
	// .env is optional; it only supplies defaults such as EXAM_ENV
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "invigilate",
		Short: "Exam invigilator assignment",
		Long: `A CLI tool for assigning teacher-invigilators to exam rooms, balancing workload and
keeping teachers away from their own subjects, homerooms and declared unavailability.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	defaultEnv := os.Getenv("EXAM_ENV")
	if defaultEnv == "" {
		defaultEnv = "dev"
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", defaultEnv, "Environment (selects exam_config.<env>.yaml, defaults to $EXAM_ENV)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (overrides --env lookup)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "Directory for JSON log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.PreviewCmd(app))
	rootCmd.AddCommand(commands.TeachersCmd(app))
	rootCmd.AddCommand(commands.TemplateCmd(app))
	rootCmd.AddCommand(commands.SessionCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and configuration
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, _, err = logging.InitLogger(env, logDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger.Debug("Configuration loaded successfully",
		zap.String("workbook", app.Cfg.Workbook),
		zap.Int("grades", len(app.Cfg.RoomCounts)),
		zap.Int("attempts", app.Cfg.Attempts))

	return nil
}
