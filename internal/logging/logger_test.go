package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

// captureLogger swaps the default logger for one writing JSON into a buffer
// and restores it when the test finishes.
func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("parse log line: %v", err)
	}
	return entry
}

func TestFromContext_IncludesRequestID(t *testing.T) {
	buf := captureLogger(t)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	FromContext(ctx).Info("hello")

	entry := lastEntry(t, buf)
	if entry["request_id"] != "req-42" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
}

func TestFromContext_NoRequestID(t *testing.T) {
	buf := captureLogger(t)

	FromContext(context.Background()).Info("hello")

	entry := lastEntry(t, buf)
	if _, ok := entry["request_id"]; ok {
		t.Error("request_id present without one in context")
	}
}

func TestWithFields(t *testing.T) {
	buf := captureLogger(t)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-7")

	logger := WithFields(ctx, "file", "units.xlsx", "development", "Oakfield Park")
	logger.Info("analyzing import")
	logger.Info("import analyzed", "total", 3)

	entry := lastEntry(t, buf)
	if entry["file"] != "units.xlsx" || entry["development"] != "Oakfield Park" {
		t.Errorf("carried fields missing: %v", entry)
	}
	if entry["request_id"] != "req-7" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["total"] != float64(3) {
		t.Errorf("total = %v", entry["total"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
