package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightbay/salestrack/internal/domain"
	"github.com/brightbay/salestrack/internal/importer"
	"github.com/brightbay/salestrack/internal/logging"
	"github.com/brightbay/salestrack/internal/store"
)

// handleListDevelopments returns all developments.
func (s *Server) handleListDevelopments(w http.ResponseWriter, r *http.Request) {
	devs, err := s.store.ListDevelopments(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, devs)
}

// handleCreateDevelopment registers a new development.
func (s *Server) handleCreateDevelopment(w http.ResponseWriter, r *http.Request) {
	var dev domain.Development
	if err := json.NewDecoder(r.Body).Decode(&dev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dev.Name = strings.TrimSpace(dev.Name)
	if dev.Name == "" {
		writeError(w, http.StatusBadRequest, "development name is required")
		return
	}
	if dev.ID == "" {
		dev.ID = uuid.NewString()
	}

	if err := s.store.CreateDevelopment(r.Context(), &dev); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, dev)
}

// handleGetDevelopment returns a single development by ID.
func (s *Server) handleGetDevelopment(w http.ResponseWriter, r *http.Request) {
	dev, err := s.store.GetDevelopment(r.Context(), chi.URLParam(r, "devID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, dev)
}

// handleListUnits returns all units within a development.
func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	devID := chi.URLParam(r, "devID")
	if _, err := s.store.GetDevelopment(r.Context(), devID); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	units, err := s.store.ListUnits(r.Context(), devID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, units)
}

// handleGetUnit returns a single unit.
func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := s.store.GetUnit(r.Context(), chi.URLParam(r, "devID"), chi.URLParam(r, "unitNumber"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, unit)
}

// handleUpdateUnit replaces a unit's record with the submitted body. New
// unit numbers create the unit; existing ones are updated in place. Field
// level differences against the stored record are written to the audit log.
func (s *Server) handleUpdateUnit(w http.ResponseWriter, r *http.Request) {
	devID := chi.URLParam(r, "devID")
	unitNumber := chi.URLParam(r, "unitNumber")

	if _, err := s.store.GetDevelopment(r.Context(), devID); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var unit domain.Unit
	if err := json.NewDecoder(r.Body).Decode(&unit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	unit.UnitNumber = unitNumber

	action := domain.ActionUnitEdit
	var changes []domain.FieldChange
	existing, err := s.store.GetUnit(r.Context(), devID, unitNumber)
	switch {
	case err == nil:
		changes = unitChanges(existing, &unit)
		if len(changes) == 0 {
			// Nothing differs, skip the write and the audit entry
			writeJSON(w, unit)
			return
		}
	case errors.Is(err, store.ErrNotFound):
		action = domain.ActionUnitCreate
	default:
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.store.UpsertUnit(r.Context(), devID, &unit); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.appendAudit(r, &domain.AuditEntry{
		Action:        action,
		DevelopmentID: devID,
		UnitNumber:    unitNumber,
		Changes:       changes,
	})

	writeJSON(w, unit)
}

// unitChanges diffs two units field by field using the import column
// descriptors, so manual edits and spreadsheet imports report changes in
// the same vocabulary.
func unitChanges(prev, next *domain.Unit) []domain.FieldChange {
	var changes []domain.FieldChange
	for _, f := range importer.UnitFields() {
		before := f.Get(prev).String()
		after := f.Get(next).String()
		if before == after {
			continue
		}
		changes = append(changes, domain.FieldChange{
			Field:    f.Header,
			OldValue: before,
			NewValue: after,
		})
	}
	return changes
}

// DevelopmentSummary aggregates unit counts and sales value for one
// development.
type DevelopmentSummary struct {
	DevelopmentID  string         `json:"developmentId"`
	TotalUnits     int            `json:"totalUnits"`
	BySalesStatus  map[string]int `json:"bySalesStatus"`
	ByConstruction map[string]int `json:"byConstruction"`
	SoldValue      float64        `json:"soldValue"`
	ListValue      float64        `json:"listValue"`
}

// handleDevelopmentSummary returns aggregate sales figures for a development.
func (s *Server) handleDevelopmentSummary(w http.ResponseWriter, r *http.Request) {
	devID := chi.URLParam(r, "devID")
	if _, err := s.store.GetDevelopment(r.Context(), devID); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	units, err := s.store.ListUnits(r.Context(), devID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	summary := DevelopmentSummary{
		DevelopmentID:  devID,
		TotalUnits:     len(units),
		BySalesStatus:  make(map[string]int),
		ByConstruction: make(map[string]int),
	}
	for _, u := range units {
		if u.SalesStatus != "" {
			summary.BySalesStatus[u.SalesStatus]++
		}
		if u.ConstructionStatus != "" {
			summary.ByConstruction[u.ConstructionStatus]++
		}
		if u.SoldPrice != nil {
			summary.SoldValue += *u.SoldPrice
		}
		if u.ListPrice != nil {
			summary.ListValue += *u.ListPrice
		}
	}

	writeJSON(w, summary)
}

// appendAudit writes an audit entry for the current request. Failures are
// logged, not surfaced: the data change already succeeded.
func (s *Server) appendAudit(r *http.Request, entry *domain.AuditEntry) {
	entry.ID = uuid.NewString()
	entry.Actor = actorFromRequest(r)
	entry.CreatedAt = time.Now().UTC()
	if err := s.audit.Append(r.Context(), entry); err != nil {
		logging.FromContext(r.Context()).Warn("audit append failed",
			"action", string(entry.Action),
			"error", err,
		)
	}
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
