package middleware

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/brightbay/salestrack/internal/config"
)

// APIKeyAuth guards a route subtree with a shared X-API-Key header. With
// RequireAPIKey disabled the middleware passes everything through; enabled
// with an empty key list it rejects everything, so a misconfigured deploy
// surfaces immediately instead of silently opening the API.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				slog.Warn("request without API key",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				deny(w, http.StatusUnauthorized,
					"missing API key", "include an X-API-Key header", "AUTH001")
				return
			}

			if !matchesAnyKey(key, cfg.APIKeys) {
				slog.Warn("request with unknown API key",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				deny(w, http.StatusForbidden,
					"invalid API key", "check the configured API keys", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// deny writes the service's JSON error envelope. The web package owns the
// ErrorResponse type but importing it here would be a cycle, so the shape is
// reproduced inline.
func deny(w http.ResponseWriter, status int, msg, action, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q,"message":%q,"action":%q,"code":%q}`, msg, msg, action, code)
}

// matchesAnyKey compares the presented key against every configured key in
// constant time. All keys are always checked so the response time does not
// reveal which key, if any, matched.
func matchesAnyKey(key string, configured []string) bool {
	matched := 0
	for _, k := range configured {
		matched |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return matched == 1
}
