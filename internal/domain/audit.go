package domain

import "time"

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionImport         AuditAction = "import"
	ActionImportSummary  AuditAction = "import_summary"
	ActionUnitEdit       AuditAction = "unit_edit"
	ActionUnitCreate     AuditAction = "unit_create"
	ActionIncentiveApply AuditAction = "incentive_apply"
	ActionSchemeCreate   AuditAction = "scheme_create"
	ActionSchemeUpdate   AuditAction = "scheme_update"
	ActionSchemeDelete   AuditAction = "scheme_delete"
)

// Actor identifies the user performing a mutation.
type Actor struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// FieldChange records one field-level difference applied to a record.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// AuditEntry is an append-only record of a mutation. Entries are never
// updated or deleted once written.
type AuditEntry struct {
	ID            string        `json:"id"`
	Action        AuditAction   `json:"action"`
	Actor         Actor         `json:"actor"`
	DevelopmentID string        `json:"developmentId,omitempty"`
	UnitNumber    string        `json:"unitNumber,omitempty"`
	Changes       []FieldChange `json:"changes,omitempty"`
	RowsAffected  int           `json:"rowsAffected,omitempty"`
	BatchID       string        `json:"batchId,omitempty"`
	Source        string        `json:"source,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}
