package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/fxsignals/internal/api"
	"github.com/newthinker/fxsignals/internal/metrics"
	"github.com/newthinker/fxsignals/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the signals dashboard server",
	RunE:  runServe,
}

var templatesDir string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "load page templates from this directory instead of the embedded ones")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	client := newClient(cfg, log)

	log.Info("starting fxsignals server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", client.BaseURL()),
	)

	deps := api.Dependencies{
		Session: session.New(client, log),
	}

	if cfg.Metrics.Enabled {
		reg := metrics.NewRegistry()
		client.SetRecorder(reg)
		deps.Metrics = reg
	}

	if cfg.Archive.Enabled {
		store, err := openArchive(cfg)
		if err != nil {
			return err
		}
		deps.Archive = store
		deps.ArchiveBackend = archiveType(cfg)
		log.Info("archiving exports", zap.String("location", archiveLocation(cfg, store)))
	}

	server, err := api.NewServer(api.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		APIKey:       cfg.Server.APIKey,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		TemplatesDir: templatesDir,
		MetricsPath:  cfg.Metrics.Path,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down fxsignals server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
