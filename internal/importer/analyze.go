package importer

// analyze.go is the import orchestrator. It validates the required headers
// once, globally, then processes every data row independently: a fatal
// condition on one row is recorded and iteration continues. Each row lands
// in exactly one summary bucket (changed, unchanged, or errored).

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brightbay/salestrack/internal/domain"
	"github.com/brightbay/salestrack/internal/store"
)

// unitPatch accumulates the working state for one row during analysis.
type unitPatch struct {
	rowNumber int
	unit      domain.Unit
	changes   []ImportChange
	warnings  []string
}

// AnalyzeWorkbook parses an uploaded workbook and analyzes its first
// worksheet. The returned error covers unreadable workbooks only; every
// other failure is captured inside the ImportResult.
func (s *Service) AnalyzeWorkbook(ctx context.Context, r io.Reader) (*ImportResult, error) {
	sheet, err := ParseWorkbook(r)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, sheet), nil
}

// Analyze reconciles a parsed worksheet against the store and returns the
// change-set, row errors, and summary counts. It never mutates the store.
func (s *Service) Analyze(ctx context.Context, sheet *Sheet) *ImportResult {
	result := &ImportResult{}

	idx := sheet.Index()
	if missing := missingHeaders(idx); len(missing) > 0 {
		result.Error = fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))
		return result
	}

	devPos := idx[lowerHeader(HeaderDevelopmentName)]
	unitPos := idx[lowerHeader(HeaderUnitNumber)]

	for i, row := range sheet.Rows {
		rowNum := i + 2 // header is row 1
		if isEmptyRow(row) {
			continue
		}

		devName := cell(row, devPos)
		unitNo := cell(row, unitPos)
		if rowErr := keyError(rowNum, devName, unitNo); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			result.Summary.Errored++
			continue
		}

		dev, unit, rowErr := s.resolveUnit(ctx, rowNum, devName, unitNo)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			result.Summary.Errored++
			continue
		}

		patch := &unitPatch{rowNumber: rowNum, unit: *unit}
		if rowErr := diffUnit(patch, row, idx); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			result.Summary.Errored++
			continue
		}

		if len(patch.changes) == 0 {
			result.Summary.Unchanged++
			continue
		}

		result.Rows = append(result.Rows, ImportRow{
			RowNumber:       rowNum,
			DevelopmentID:   dev.ID,
			DevelopmentName: dev.Name,
			UnitNumber:      unit.UnitNumber,
			Changes:         patch.changes,
			Updated:         patch.unit,
			Warnings:        patch.warnings,
		})
		result.Summary.Changed++
	}

	result.Summary.Total = result.Summary.Changed + result.Summary.Unchanged + result.Summary.Errored
	return result
}

// resolveUnit looks up the development by name and the unit within it.
func (s *Service) resolveUnit(ctx context.Context, rowNum int, devName, unitNo string) (*domain.Development, *domain.Unit, *RowError) {
	dev, err := s.store.GetDevelopmentByName(ctx, devName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, &RowError{
			Row:     rowNum,
			Kind:    ErrorEntityNotFound,
			Field:   HeaderDevelopmentName,
			Value:   devName,
			Message: fmt.Sprintf("development %q not found", devName),
		}
	}
	if err != nil {
		return nil, nil, lookupError(rowNum, err)
	}

	unit, err := s.store.GetUnit(ctx, dev.ID, unitNo)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, &RowError{
			Row:     rowNum,
			Kind:    ErrorEntityNotFound,
			Field:   HeaderUnitNumber,
			Value:   unitNo,
			Message: fmt.Sprintf("unit %q not found in development %q", unitNo, devName),
		}
	}
	if err != nil {
		return nil, nil, lookupError(rowNum, err)
	}

	return dev, unit, nil
}

func keyError(rowNum int, devName, unitNo string) *RowError {
	switch {
	case devName == "":
		return &RowError{Row: rowNum, Kind: ErrorBadValue, Field: HeaderDevelopmentName,
			Message: "development name is empty"}
	case unitNo == "":
		return &RowError{Row: rowNum, Kind: ErrorBadValue, Field: HeaderUnitNumber,
			Message: "unit number is empty"}
	}
	return nil
}

func lookupError(rowNum int, err error) *RowError {
	return &RowError{Row: rowNum, Kind: ErrorLookupFailed, Message: fmt.Sprintf("lookup failed: %v", err)}
}

func missingHeaders(idx HeaderIndex) []string {
	var missing []string
	for _, h := range []string{HeaderDevelopmentName, HeaderUnitNumber} {
		if _, ok := idx[lowerHeader(h)]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

func lowerHeader(h string) string {
	return strings.ToLower(h)
}
