package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/internal/config"
	"github.com/jakechorley/exam-invigilation/pkg/clients/workbook"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
}

// OpenWorkbook opens the configured input workbook. The caller must Close it.
func (app *AppContext) OpenWorkbook() (*workbook.Client, error) {
	app.Logger.Debug("Opening workbook", zap.String("path", app.Cfg.Workbook))
	client, err := workbook.Open(app.Cfg.Workbook, app.Cfg.Sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to open input workbook: %w", err)
	}
	return client, nil
}

// OutputPath resolves a relative output path against the configured output directory
func (app *AppContext) OutputPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(app.Cfg.OutputDir, path)
}
