// Package logging sets up the diagnostic file log. The TUI owns the
// terminal, so nothing may ever log to stdout or stderr while it runs.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hwbook/internal/config"
)

// New opens a zap logger writing to hwbook.log under the user data dir.
// When logging is disabled the returned logger is a no-op, so callers
// never need to nil-check.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	if !cfg.Enabled {
		return zap.NewNop(), nil
	}

	path, err := logPath()
	if err != nil {
		return zap.NewNop(), err
	}

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}

func logPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	appDir := filepath.Join(dataDir, "hwbook")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "hwbook.log"), nil
}
