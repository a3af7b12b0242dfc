// Package signals fetches forex signal records from the remote analytics API.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newthinker/fxsignals/internal/core"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the origin of the signals API.
	DefaultBaseURL = "https://forex-signals.foliumaitech.com"

	signalsPath = "/signals"
)

// Recorder receives the outcome of each fetch.
type Recorder interface {
	RecordFetch(status string, duration float64, records int)
}

// Config holds client configuration
type Config struct {
	BaseURL string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

// Client issues signal queries against the remote API
type Client struct {
	baseURL  string
	client   *http.Client
	logger   *zap.Logger
	recorder Recorder
}

// New creates a new signals API client
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// SetRecorder attaches a metrics recorder.
func (c *Client) SetRecorder(r Recorder) {
	c.recorder = r
}

// BaseURL returns the API origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type signalsResponse struct {
	Results *core.QueryResult `json:"results"`
}

// FetchSignals issues exactly one GET for the range and returns the records
// in API order. The range is expected to be validated already. Network
// failures, non-2xx statuses and unparseable bodies all fail with
// core.ErrFetchFailed. A body without a results field yields an empty result.
func (c *Client) FetchSignals(ctx context.Context, r core.DateRange) (core.QueryResult, error) {
	start := time.Now()

	result, err := c.fetch(ctx, r)

	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	if c.recorder != nil {
		c.recorder.RecordFetch(status, duration.Seconds(), len(result))
	}

	if err != nil {
		c.logger.Warn("fetching signals failed",
			zap.String("start_date", r.Start.String()),
			zap.String("end_date", r.End.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}

	c.logger.Info("fetched signals",
		zap.String("start_date", r.Start.String()),
		zap.String("end_date", r.End.String()),
		zap.Int("records", len(result)),
		zap.Duration("duration", duration),
	)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, r core.DateRange) (core.QueryResult, error) {
	reqURL := c.requestURL(r)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching signals: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body signalsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if body.Results == nil {
		c.logger.Warn("signals response has no results field, treating as empty",
			zap.String("url", reqURL),
		)
		return core.QueryResult{}, nil
	}
	return *body.Results, nil
}

// requestURL builds {base}/signals?start_date=...&end_date=...
func (c *Client) requestURL(r core.DateRange) string {
	return fmt.Sprintf("%s%s?start_date=%s&end_date=%s", c.baseURL, signalsPath,
		url.QueryEscape(r.Start.String()), url.QueryEscape(r.End.String()))
}
