// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	apihandler "github.com/newthinker/fxsignals/internal/api/handler/api"
	"github.com/newthinker/fxsignals/internal/api/handler/web"
	"github.com/newthinker/fxsignals/internal/api/middleware"
	"github.com/newthinker/fxsignals/internal/api/response"
	"github.com/newthinker/fxsignals/internal/metrics"
	"github.com/newthinker/fxsignals/internal/session"
	"github.com/newthinker/fxsignals/internal/storage/archive"
)

// Server represents the HTTP server for the signals dashboard
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	APIKey       string
	RateLimit    float64
	RateBurst    int
	TemplatesDir string
	MetricsPath  string
}

// Dependencies are the components the routes are served from.
type Dependencies struct {
	Session *session.Session

	// Archive receives every export when set; ArchiveBackend labels its metrics.
	Archive        archive.Storage
	ArchiveBackend string

	// Metrics enables /metrics and HTTP instrumentation when set.
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Session == nil {
		return nil, fmt.Errorf("session is required")
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	if err := s.setupRoutes(cfg, deps); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)
	s.httpServer.Handler = handler

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) error {
	webHandler, err := web.NewHandler(deps.Session, cfg.TemplatesDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	signals := apihandler.NewSignalsHandler(deps.Session, s.logger)
	if deps.Archive != nil {
		signals.SetArchive(deps.Archive, deps.ArchiveBackend)
	}
	if deps.Metrics != nil {
		signals.SetMetrics(deps.Metrics)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, s.logger)
	auth := middleware.APIKeyAuth(cfg.APIKey)
	protect := func(h http.HandlerFunc) http.Handler {
		return limiter.Handler(auth(h))
	}

	// Web UI routes. Browsers cannot send the API key header, so the page
	// routes that reach the upstream or build workbooks are only rate limited.
	s.mux.HandleFunc("/", webHandler.Dashboard)
	s.mux.Handle("POST /fetch", limiter.Handler(http.HandlerFunc(webHandler.Fetch)))
	s.mux.Handle("GET "+web.ExportPath, limiter.Handler(http.HandlerFunc(signals.Export)))

	// API routes

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /api/signals", protect(signals.List))
	s.mux.Handle("GET /api/signals/export", protect(signals.Export))

	if deps.Archive != nil {
		exports := apihandler.NewExportsHandler(deps.Archive)
		s.mux.Handle("GET /api/exports", protect(exports.List))
		s.mux.Handle("GET /api/exports/{name}", protect(func(w http.ResponseWriter, r *http.Request) {
			exports.Get(w, r, r.PathValue("name"))
		}))
	}

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, deps.Metrics.Handler())
	}

	return nil
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
