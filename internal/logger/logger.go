package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger settings
type Config struct {
	// Development switches to the human-readable console encoder.
	Development bool
	// Level overrides the default level ("debug", "info", "warn", "error").
	Level string
}

// New creates a new zap logger
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config

	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		zc.Level = level
	}

	return zc.Build()
}

// Must creates a logger or panics
func Must(cfg Config) *zap.Logger {
	log, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return log
}
