// Package session holds the dashboard state for one user: the selected date
// range, the last fetched records, the in-flight flag and the current error.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/newthinker/fxsignals/internal/daterange"
	"github.com/newthinker/fxsignals/internal/export"
	"go.uber.org/zap"
)

// Fetcher retrieves the records of a validated range.
type Fetcher interface {
	FetchSignals(ctx context.Context, r core.DateRange) (core.QueryResult, error)
}

// State is a point-in-time copy of a Session.
type State struct {
	Range core.DateRange
	// ResultsRange is the range the held results were fetched for.
	ResultsRange core.DateRange
	Results      core.QueryResult
	Loading      bool
	Err          error
}

// Message returns the user-facing error message, or "" when there is none.
func (s State) Message() string {
	return core.UserMessage(s.Err)
}

// Session owns the dashboard state. Results are replaced wholesale on each
// successful fetch and left untouched when a fetch fails.
type Session struct {
	fetcher Fetcher
	bounds  core.DateBound
	logger  *zap.Logger

	mu      sync.Mutex
	rng     core.DateRange
	held    core.DateRange
	results core.QueryResult
	loading bool
	err     error
}

// New creates a session bound to the default query window.
func New(fetcher Fetcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		fetcher: fetcher,
		bounds:  core.DefaultBounds(),
		logger:  logger,
		results: core.QueryResult{},
	}
}

// Bounds returns the query window.
func (s *Session) Bounds() core.DateBound {
	return s.bounds
}

// SetStart sets the start date and clears any error.
func (s *Session) SetStart(d core.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Start = d
	s.err = nil
}

// SetEnd sets the end date and clears any error.
func (s *Session) SetEnd(d core.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.End = d
	s.err = nil
}

// SetRange sets both dates and clears any error.
func (s *Session) SetRange(r core.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = r
	s.err = nil
}

// Fetch validates the held range and, if valid, fetches its records. A
// validation failure blocks the fetch. A fetch failure keeps the previous
// results. Only one fetch runs at a time; a concurrent call fails with
// core.ErrFetchInFlight without touching the state.
func (s *Session) Fetch(ctx context.Context) (core.QueryResult, error) {
	return s.fetch(ctx, nil)
}

// FetchRange sets the range and fetches it as one step. When another fetch
// is in flight it fails with core.ErrFetchInFlight and the range is left as
// it was.
func (s *Session) FetchRange(ctx context.Context, r core.DateRange) (core.QueryResult, error) {
	return s.fetch(ctx, &r)
}

func (s *Session) fetch(ctx context.Context, r *core.DateRange) (core.QueryResult, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, core.ErrFetchInFlight
	}
	if r != nil {
		s.rng = *r
	}
	s.err = nil
	rng := s.rng
	if err := daterange.Validate(rng, s.bounds); err != nil {
		s.err = err
		s.mu.Unlock()
		return nil, err
	}
	s.loading = true
	s.mu.Unlock()

	results, err := s.fetcher.FetchSignals(ctx, rng)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		if !errors.Is(err, core.ErrFetchFailed) {
			err = core.WrapError(core.ErrFetchFailed, err)
		}
		s.err = err
		s.logger.Warn("fetch failed, keeping previous results",
			zap.Int("held", len(s.results)),
			zap.Error(err),
		)
		return nil, s.err
	}
	s.results = cloneResults(results)
	s.held = rng
	return cloneResults(results), nil
}

// Export serializes the held results as a workbook and returns it with a
// filename built from the range they were fetched for. It fails with core.ErrNoResults when nothing has been fetched.
func (s *Session) Export() ([]byte, string, error) {
	s.mu.Lock()
	results := s.results
	filename := export.Filename(s.held)
	s.mu.Unlock()

	if len(results) == 0 {
		return nil, "", core.ErrNoResults
	}

	data, err := export.Workbook(results)
	if err != nil {
		return nil, "", err
	}
	return data, filename, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Range:        s.rng,
		ResultsRange: s.held,
		Results:      cloneResults(s.results),
		Loading:      s.loading,
		Err:          s.err,
	}
}

func cloneResults(r core.QueryResult) core.QueryResult {
	out := make(core.QueryResult, len(r))
	copy(out, r)
	return out
}
