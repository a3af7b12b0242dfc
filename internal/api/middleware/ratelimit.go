// internal/api/middleware/ratelimit.go
package middleware

import (
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/newthinker/fxsignals/internal/api/response"
	"github.com/newthinker/fxsignals/internal/core"
)

// maxClients bounds the number of tracked buckets. When reached, all
// buckets are dropped and refilled on demand.
const maxClients = 10000

// RateLimiter gives each client address its own token bucket.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
	logger   *zap.Logger
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst per client. A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
		logger:   logger,
	}
}

// Allow reports whether a request from client may proceed.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.rps <= 0 {
		return true
	}
	return rl.getLimiter(client).Allow()
}

func (rl *RateLimiter) getLimiter(client string) *rate.Limiter {
	rl.mu.RLock()
	limiter, ok := rl.limiters[client]
	rl.mu.RUnlock()
	if ok {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters[client]; ok {
		return limiter
	}
	if len(rl.limiters) >= maxClients {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(rate.Limit(rl.rps), rl.burst)
	rl.limiters[client] = limiter
	return limiter
}

// Handler wraps next with rate limiting keyed by the connection's remote host.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := remoteHost(r)
		if !rl.Allow(client) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("client", client),
			)
			w.Header().Set("Retry-After", "1")
			response.Error(w, http.StatusTooManyRequests, core.ErrRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
