package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brightbay/salestrack/internal/domain"
	"github.com/brightbay/salestrack/internal/store"
)

// handleAuditLog returns audit entries, newest first. Supported query
// parameters: development, unit, action, start, end, limit, offset.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.AuditFilter{
		DevelopmentID: q.Get("development"),
		UnitNumber:    q.Get("unit"),
		Action:        domain.AuditAction(q.Get("action")),
		Limit:         parseIntParam(r, "limit", store.DefaultAuditLimit),
		Offset:        parseIntParam(r, "offset", 0),
	}

	var err error
	if filter.Start, err = parseTimeParam(q.Get("start")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start time")
		return
	}
	if filter.End, err = parseTimeParam(q.Get("end")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end time")
		return
	}

	entries, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, entries)
}

// parseIntParam parses a non-negative integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates. Empty input
// yields the zero time, which the store treats as unbounded.
func parseTimeParam(val string) (time.Time, error) {
	if val == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", val)
}
