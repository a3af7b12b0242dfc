package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/fxsignals/internal/collector/signals"
	"github.com/newthinker/fxsignals/internal/config"
	"github.com/newthinker/fxsignals/internal/logger"
	"github.com/newthinker/fxsignals/internal/storage/archive"
)

// loadConfig reads --config, falling back to defaults, and validates it.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) *zap.Logger {
	if debug {
		level = "debug"
	}
	return logger.Must(logger.Config{Development: debug, Level: level})
}

// setup loads the config and builds the logger from it.
func setup() (*config.Config, *zap.Logger, error) {
	bootstrap := newLogger("")
	cfg, err := loadConfig(bootstrap)
	if err != nil {
		bootstrap.Sync()
		return nil, nil, err
	}
	return cfg, newLogger(cfg.Log.Level), nil
}

func newClient(cfg *config.Config, log *zap.Logger) *signals.Client {
	return signals.New(signals.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, log)
}

func openArchive(cfg *config.Config) (archive.Storage, error) {
	store, err := archive.New(archive.Config{
		Type: cfg.Archive.Type,
		Path: cfg.Archive.Path,
		S3: archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return store, nil
}

func archiveType(cfg *config.Config) string {
	if cfg.Archive.Type == "" {
		return archive.TypeLocalFS
	}
	return cfg.Archive.Type
}

// archiveLocation describes where store keeps workbooks, for logs and output.
func archiveLocation(cfg *config.Config, store archive.Storage) string {
	if local, ok := store.(*archive.LocalFS); ok {
		return local.Dir()
	}
	loc := "s3://" + cfg.Archive.S3.Bucket
	if cfg.Archive.S3.Prefix != "" {
		loc += "/" + cfg.Archive.S3.Prefix
	}
	return loc
}
