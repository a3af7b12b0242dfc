// internal/api/handler/web/handler_test.go
package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/newthinker/fxsignals/internal/session"
)

type stubFetcher struct {
	calls   int
	results core.QueryResult
	err     error
}

func (f *stubFetcher) FetchSignals(ctx context.Context, r core.DateRange) (core.QueryResult, error) {
	f.calls++
	return f.results, f.err
}

func ptr[T any](v T) *T { return &v }

func newHandler(t *testing.T, f *stubFetcher) (*Handler, *session.Session) {
	t.Helper()
	s := session.New(f, nil)
	h, err := NewHandler(s, "", nil)
	require.NoError(t, err)
	return h, s
}

func postForm(h *Handler, start, end string) *httptest.ResponseRecorder {
	form := url.Values{"start_date": {start}, "end_date": {end}}
	req := httptest.NewRequest("POST", "/fetch", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Fetch(w, req)
	return w
}

func getDashboard(h *Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/", nil))
	return w
}

func TestDashboard_InitialPage(t *testing.T) {
	h, _ := newHandler(t, &stubFetcher{})

	w := getDashboard(h)
	body := w.Body.String()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "Date range allowed: September 8, 2014 - February 18, 2025")
	assert.Contains(t, body, `min="2014-09-08"`)
	assert.Contains(t, body, `max="2025-02-18"`)
	assert.Contains(t, body, "Get Signals")
	assert.NotContains(t, body, `id="export"`)
	assert.NotContains(t, body, `id="error"`)
}

func TestDashboard_UnknownPath(t *testing.T) {
	h, _ := newHandler(t, &stubFetcher{})

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFetch_ShowsResults(t *testing.T) {
	f := &stubFetcher{results: core.QueryResult{
		{Date: "2020-01-02", Trend: ptr(core.TrendBearish), EntryPrice: ptr(1.1), PipCost: ptr(10.0)},
		{Date: "2020-01-03"},
	}}
	h, _ := newHandler(t, f)

	w := postForm(h, "2020-01-01", "2020-01-31")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	body := getDashboard(h).Body.String()
	assert.Contains(t, body, "Signal Time")
	assert.Contains(t, body, "1.10000")
	assert.Contains(t, body, "$10.00")
	assert.Contains(t, body, "bearish")
	assert.Contains(t, body, `id="export"`)
	assert.Contains(t, body, `href="/export"`)
	// picker bounds follow the selected range
	assert.Contains(t, body, `max="2020-01-31"`)
	assert.Contains(t, body, `min="2020-01-01"`)
}

func TestFetch_ValidationError(t *testing.T) {
	f := &stubFetcher{}
	h, _ := newHandler(t, f)

	postForm(h, "2020-02-01", "2020-01-01")

	body := getDashboard(h).Body.String()
	assert.Contains(t, body, "Start date cannot be greater than end date")
	assert.Equal(t, 0, f.calls)
}

func TestFetch_FailureKeepsTable(t *testing.T) {
	f := &stubFetcher{results: core.QueryResult{{Date: "2020-01-02"}}}
	h, _ := newHandler(t, f)

	postForm(h, "2020-01-01", "2020-01-31")
	f.results, f.err = nil, errors.New("boom")
	postForm(h, "2020-01-01", "2020-01-31")

	body := getDashboard(h).Body.String()
	assert.Contains(t, body, "Failed to fetch signals")
	assert.Contains(t, body, "2020-01-02")
	assert.Contains(t, body, `id="export"`)
}

func TestFetch_MalformedDate(t *testing.T) {
	f := &stubFetcher{}
	h, _ := newHandler(t, f)

	w := postForm(h, "not-a-date", "2020-01-31")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Dates must use the YYYY-MM-DD format")
	assert.Equal(t, 0, f.calls)
}

func TestNewHandlerWithFS(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html":    {Data: []byte(`{{template "content" .}}`)},
		"dashboard.html": {Data: []byte(`{{define "content"}}{{.Banner}}{{end}}`)},
	}

	h, err := NewHandlerWithFS(session.New(&stubFetcher{}, nil), fsys, nil)
	require.NoError(t, err)

	assert.Equal(t, "Date range allowed: September 8, 2014 - February 18, 2025", getDashboard(h).Body.String())
}

func TestNewHandlerWithFS_MissingTemplate(t *testing.T) {
	_, err := NewHandlerWithFS(session.New(&stubFetcher{}, nil), fstest.MapFS{}, nil)
	assert.Error(t, err)
}
