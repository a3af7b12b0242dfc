// internal/api/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/newthinker/fxsignals/internal/api/response"
	"github.com/newthinker/fxsignals/internal/core"
)

// APIKeyHeader carries the key checked by APIKeyAuth.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns middleware that validates X-API-Key header.
// If apiKey is empty, authentication is disabled.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(APIKeyHeader)
			if providedKey == "" {
				response.Error(w, http.StatusUnauthorized, core.ErrUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				response.Error(w, http.StatusUnauthorized, core.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
