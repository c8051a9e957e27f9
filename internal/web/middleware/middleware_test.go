package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brightbay/salestrack/internal/config"
)

func echoRemoteAddr() (http.Handler, *string) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	})
	return h, &seen
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		proxies    []string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{
			name:       "trusted proxy with X-Real-IP",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "trusted proxy with forwarded chain",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			forwarded:  "203.0.113.9, 10.1.2.3",
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted source keeps remote addr",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "198.51.100.7:4567",
			realIP:     "203.0.113.9",
			want:       "198.51.100.7:4567",
		},
		{
			name:       "bare host entry widens to single-host net",
			proxies:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9999",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "garbage header ignored",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			realIP:     "not-an-ip",
			want:       "10.1.2.3:4567",
		},
		{
			name:       "invalid proxy entry skipped",
			proxies:    []string{"not-a-cidr"},
			remoteAddr: "10.1.2.3:4567",
			realIP:     "203.0.113.9",
			want:       "10.1.2.3:4567",
		},
		{
			name:       "no proxies configured",
			proxies:    nil,
			remoteAddr: "10.1.2.3:4567",
			realIP:     "203.0.113.9",
			want:       "10.1.2.3:4567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, seen := echoRemoteAddr()
			handler := TrustedRealIP(tt.proxies)(inner)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if *seen != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", *seen, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	pass := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("disabled passes through", func(t *testing.T) {
		cfg := &config.SecurityConfig{RequireAPIKey: false}
		rec := httptest.NewRecorder()
		APIKeyAuth(cfg)(pass).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}
		rec := httptest.NewRecorder()
		APIKeyAuth(cfg)(pass).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Action  string `json:"action"`
			Code    string `json:"code"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("body is not the JSON error envelope: %v", err)
		}
		if body.Code != "AUTH001" || body.Action == "" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "nope")
		rec := httptest.NewRecorder()
		APIKeyAuth(cfg)(pass).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("any configured key accepted", func(t *testing.T) {
		cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}
		for _, key := range []string{"k1", "k2"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-API-Key", key)
			rec := httptest.NewRecorder()
			APIKeyAuth(cfg)(pass).ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent {
				t.Errorf("key %q: status = %d", key, rec.Code)
			}
		}
	})

	t.Run("enabled with no keys rejects", func(t *testing.T) {
		cfg := &config.SecurityConfig{RequireAPIKey: true}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "anything")
		rec := httptest.NewRecorder()
		APIKeyAuth(cfg)(pass).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestStatusRecorder(t *testing.T) {
	t.Run("explicit status kept", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
		sr.WriteHeader(http.StatusTeapot)
		sr.WriteHeader(http.StatusOK)
		if sr.status != http.StatusTeapot {
			t.Errorf("status = %d, first WriteHeader should win", sr.status)
		}
	})

	t.Run("implicit write counts as 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
		if _, err := sr.Write([]byte("ok")); err != nil {
			t.Fatal(err)
		}
		if sr.status != http.StatusOK {
			t.Errorf("status = %d", sr.status)
		}
	})
}
