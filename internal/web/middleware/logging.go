// Package middleware holds the HTTP middleware the API server mounts around
// its routes: request logging, API key auth, and trusted-proxy client IP
// resolution.
package middleware

import (
	"net/http"
	"time"

	"github.com/brightbay/salestrack/internal/logging"
)

// Logger emits one structured log line per request after the handler
// returns. TrustedRealIP runs earlier in the chain, so RemoteAddr already
// names the real client when the request arrived through a known proxy.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}

// statusRecorder captures the status code written by the handler. The first
// WriteHeader wins; an implicit write counts as 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.wrote {
		return
	}
	s.status = status
	s.wrote = true
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wrote {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer for middleware that type-asserts it,
// such as chi's Compress looking for http.Flusher.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
