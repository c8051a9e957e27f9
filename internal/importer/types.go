package importer

import (
	"fmt"

	"github.com/brightbay/salestrack/internal/domain"
)

// ImportChange is one detected field difference on one unit.
type ImportChange struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// ImportRow is one spreadsheet row that resolved to an existing unit and
// carries at least one change. Updated holds the fully materialized unit
// with every change applied.
type ImportRow struct {
	RowNumber       int            `json:"rowNumber"`
	DevelopmentID   string         `json:"developmentId"`
	DevelopmentName string         `json:"developmentName"`
	UnitNumber      string         `json:"unitNumber"`
	Changes         []ImportChange `json:"changes"`
	Updated         domain.Unit    `json:"updated"`

	// Warnings are non-fatal: the row is still applied, but the caller
	// should surface these to the user (e.g. large price swings).
	Warnings []string `json:"warnings,omitempty"`
}

// RowErrorKind is the closed set of row-level failure causes. Callers can
// branch on the kind instead of parsing messages.
type RowErrorKind string

const (
	// ErrorEntityNotFound: the named development or unit does not exist.
	ErrorEntityNotFound RowErrorKind = "entity_not_found"

	// ErrorInvalidEnum: an enum column carries a value outside its allowed set.
	ErrorInvalidEnum RowErrorKind = "invalid_enum"

	// ErrorBadValue: a key cell (development name, unit number) is empty.
	ErrorBadValue RowErrorKind = "bad_value"

	// ErrorLookupFailed: the store errored while resolving the row.
	ErrorLookupFailed RowErrorKind = "lookup_failed"
)

// RowError is a structured row-level failure. Row numbers are 1-based
// spreadsheet rows: the header is row 1, the first data row is row 2.
type RowError struct {
	Row     int          `json:"row"`
	Kind    RowErrorKind `json:"kind"`
	Field   string       `json:"field,omitempty"`
	Value   string       `json:"value,omitempty"`
	Message string       `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Summary holds the import bucket counters. Every data row lands in exactly
// one of the three buckets, so Total == Changed + Unchanged + Errored.
type Summary struct {
	Total     int `json:"total"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Errored   int `json:"errored"`
}

// ImportResult is the outcome of analyzing one uploaded worksheet. It is
// transient: built per import operation and never persisted.
type ImportResult struct {
	Rows    []ImportRow `json:"rows"`
	Errors  []RowError  `json:"errors,omitempty"`
	Summary Summary     `json:"summary"`

	// Error is set only for structural failures (a required header column
	// is missing). When set, no row processing occurred and all other
	// fields are empty.
	Error string `json:"error,omitempty"`
}

// CommitOutcome is the result of applying a batch of accepted import rows.
// Side effects are not atomic across rows; partial success is the normal
// case.
type CommitOutcome struct {
	BatchID  string   `json:"batchId"`
	Applied  int      `json:"applied"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
}
