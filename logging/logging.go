// Package logging builds the zap logger used by every command.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// Config selects the logger flavour.
type Config struct {
	// Development switches to the human-readable console encoder.
	Development bool `koanf:"development"`
	// Level is a zap level name; empty keeps the flavour's default.
	Level string `koanf:"level"`
	// File redirects output away from stderr. The terminal host needs this
	// because stderr shares the screen.
	File string `koanf:"file"`
}

// New creates a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = level
	}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
