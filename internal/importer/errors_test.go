package importer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brightbay/salestrack/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "missing columns maps to IMP001",
			err:      errors.New("missing required columns: Unit Number"),
			wantCode: "IMP001",
		},
		{
			name:     "limiter rejection maps to IMP002",
			err:      ErrTooManyImports,
			wantCode: "IMP002",
		},
		{
			name:     "not found maps to IMP003",
			err:      store.ErrNotFound,
			wantCode: "IMP003",
		},
		{
			name:     "wrapped not found maps to IMP003",
			err:      fmt.Errorf("get unit: %w", store.ErrNotFound),
			wantCode: "IMP003",
		},
		{
			name:     "unreadable workbook maps to FILE001",
			err:      errors.New("open workbook: zip: not a valid zip file"),
			wantCode: "FILE001",
		},
		{
			name:     "empty workbook maps to FILE002",
			err:      errors.New("workbook has no worksheets"),
			wantCode: "FILE002",
		},
		{
			name:     "oversized upload maps to FILE003",
			err:      errors.New("http: request body too large"),
			wantCode: "FILE003",
		},
		{
			name:     "connection refused maps to DB001",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: "DB001",
		},
		{
			name:     "timeout maps to DB002",
			err:      errors.New("context deadline exceeded (timeout)"),
			wantCode: "DB002",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("DUPLICATE KEY value violates unique constraint"),
			wantCode: "DB003",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" {
				t.Error("MapError returned empty message")
			}
		})
	}
}

func TestMapError_NilError(t *testing.T) {
	got := MapError(nil)
	if got.Code != "ERR000" {
		t.Errorf("MapError(nil).Code = %q, want ERR000", got.Code)
	}
}
