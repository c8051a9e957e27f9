package importer

// diff.go compares normalized incoming values against the stored unit and
// produces the ordered change list for one row. Suppression rules:
//
//   - Only columns present in the sheet are considered.
//   - No-op changes (equal after normalization) are dropped, treating
//     nil and empty-string as the same "no value".
//   - A non-empty cell that fails to parse for its kind carries no signal
//     and is skipped rather than clearing the stored value.
//   - An empty cell in a boolean column is likewise skipped; an empty cell
//     in any other present column clears the stored value.

import (
	"fmt"
	"math"
)

// diffUnit applies every mapped column of row onto updated, recording
// changes and price warnings. An enum value outside its allowed set stops
// the row and is returned as the row error.
func diffUnit(updated *unitPatch, row []string, idx HeaderIndex) *RowError {
	for _, f := range UnitFields() {
		pos, ok := idx[lowerHeader(f.Header)]
		if !ok {
			continue
		}
		raw := cell(row, pos)

		val, err := Normalize(raw, f)
		if err != nil {
			return &RowError{
				Row:     updated.rowNumber,
				Kind:    ErrorInvalidEnum,
				Field:   f.Header,
				Value:   raw,
				Message: err.Error(),
			}
		}

		if !val.Valid {
			// Unparseable input never clears; empty boolean cells carry
			// no signal either way.
			if raw != "" || f.Kind == KindBool {
				continue
			}
		}

		old := f.Get(&updated.unit)
		if equalValues(old, val) {
			continue
		}

		if f.Kind == KindPrice {
			if warn := priceWarning(f.Header, old, val); warn != "" {
				updated.warnings = append(updated.warnings, warn)
			}
		}

		f.Set(&updated.unit, val)
		updated.changes = append(updated.changes, ImportChange{
			Field:    f.ID,
			OldValue: old.String(),
			NewValue: f.Get(&updated.unit).String(),
		})
	}
	return nil
}

// priceWarning returns a warning string when the fractional change between
// old and new exceeds PriceWarningThreshold. Changes from or to "no value"
// have no defined magnitude and never warn.
func priceWarning(header string, old, new Value) string {
	if !old.Valid || !new.Valid || old.Num == 0 {
		return ""
	}
	frac := math.Abs(new.Num-old.Num) / math.Abs(old.Num)
	if frac <= PriceWarningThreshold {
		return ""
	}
	return fmt.Sprintf("%s changed by %.1f%% (%s -> %s); review before committing",
		header, frac*100, old.String(), new.String())
}
