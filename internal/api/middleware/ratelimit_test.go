// internal/api/middleware/ratelimit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_RejectsAboveBurst(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rl := NewRateLimiter(0.001, 2, zap.New(core))
	h := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/signals", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, logs.FilterMessage("rate limit exceeded").Len())
}

func TestRateLimiter_RejectedResponse(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)
	h := rl.Handler(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/signals", nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/signals", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
}

func TestRateLimiter_DisabledWhenRateZero(t *testing.T) {
	h := NewRateLimiter(0, 0, zap.NewNop()).Handler(okHandler())

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/signals", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	h := NewRateLimiter(0.001, 1, nil).Handler(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/api/signals", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5001"), "same host, other port")
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"), "another client has its own bucket")
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, nil)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}
