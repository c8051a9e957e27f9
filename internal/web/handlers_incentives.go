package web

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/brightbay/salestrack/internal/domain"
)

//go:embed schemas/incentive_scheme.json
var incentiveSchemaJSON string

// incentiveSchema validates scheme payloads before they are decoded. Scheme
// definitions come from an admin UI that evolves separately from this
// service, so the contract is pinned down as a JSON Schema.
var incentiveSchema = jsonschema.MustCompileString("incentive_scheme.json", incentiveSchemaJSON)

// decodeScheme validates and decodes an incentive scheme payload.
func decodeScheme(r *http.Request) (*domain.IncentiveScheme, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if err := incentiveSchema.Validate(raw); err != nil {
		return nil, err
	}

	var scheme domain.IncentiveScheme
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&scheme); err != nil {
		return nil, err
	}
	return &scheme, nil
}

// handleListSchemes returns all incentive schemes.
func (s *Server) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := s.store.ListSchemes(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, schemes)
}

// handleCreateScheme registers a new incentive scheme.
func (s *Server) handleCreateScheme(w http.ResponseWriter, r *http.Request) {
	scheme, err := decodeScheme(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if scheme.ID == "" {
		scheme.ID = uuid.NewString()
	}

	if err := s.store.UpsertScheme(r.Context(), scheme); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.appendAudit(r, &domain.AuditEntry{
		Action: domain.ActionSchemeCreate,
		Changes: []domain.FieldChange{
			{Field: "schemeId", NewValue: scheme.ID},
			{Field: "name", NewValue: scheme.Name},
		},
	})

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, scheme)
}

// handleGetScheme returns a single incentive scheme by ID.
func (s *Server) handleGetScheme(w http.ResponseWriter, r *http.Request) {
	scheme, err := s.store.GetScheme(r.Context(), chi.URLParam(r, "schemeID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, scheme)
}

// handleUpdateScheme replaces an existing incentive scheme.
func (s *Server) handleUpdateScheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "schemeID")
	prev, err := s.store.GetScheme(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	scheme, err := decodeScheme(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	scheme.ID = id

	if err := s.store.UpsertScheme(r.Context(), scheme); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.appendAudit(r, &domain.AuditEntry{
		Action: domain.ActionSchemeUpdate,
		Changes: []domain.FieldChange{
			{Field: "schemeId", OldValue: id, NewValue: id},
			{Field: "name", OldValue: prev.Name, NewValue: scheme.Name},
		},
	})

	writeJSON(w, scheme)
}

// handleDeleteScheme removes an incentive scheme. Units referring to the
// scheme keep their weak reference; it simply stops resolving.
func (s *Server) handleDeleteScheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "schemeID")
	prev, err := s.store.GetScheme(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if err := s.store.DeleteScheme(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.appendAudit(r, &domain.AuditEntry{
		Action: domain.ActionSchemeDelete,
		Changes: []domain.FieldChange{
			{Field: "schemeId", OldValue: id},
			{Field: "name", OldValue: prev.Name},
		},
	})

	writeJSON(w, map[string]string{"status": "deleted"})
}

// applyIncentiveRequest names the scheme to apply to a unit.
type applyIncentiveRequest struct {
	SchemeID string `json:"schemeId"`
}

// handleApplyIncentive marks a unit as having an incentive scheme applied.
// The scheme must exist and be inside its validity window.
func (s *Server) handleApplyIncentive(w http.ResponseWriter, r *http.Request) {
	devID := chi.URLParam(r, "devID")
	unitNumber := chi.URLParam(r, "unitNumber")

	var req applyIncentiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SchemeID == "" {
		writeError(w, http.StatusBadRequest, "schemeId is required")
		return
	}

	scheme, err := s.store.GetScheme(r.Context(), req.SchemeID)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if !scheme.CurrentlyValid(time.Now()) {
		writeError(w, http.StatusConflict, "incentive scheme is not currently valid")
		return
	}

	unit, err := s.store.GetUnit(r.Context(), devID, unitNumber)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	prev := *unit
	unit.AppliedIncentive = scheme.ID
	unit.IncentiveStatus = domain.IncentiveApplied

	if err := s.store.UpsertUnit(r.Context(), devID, unit); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.appendAudit(r, &domain.AuditEntry{
		Action:        domain.ActionIncentiveApply,
		DevelopmentID: devID,
		UnitNumber:    unitNumber,
		Changes:       unitChanges(&prev, unit),
	})

	writeJSON(w, unit)
}
