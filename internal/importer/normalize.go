package importer

// normalize.go converts raw spreadsheet cell values into canonical typed
// values. Spreadsheet cells arrive as strings but may encode dates in half a
// dozen layouts (including raw Excel serial numbers), numbers with currency
// symbols and separators, and booleans as yes/no text.
//
// Normalization is pure: empty or unrecognized input yields an invalid
// Value, never a panic or an error. The single exception is enum fields,
// where a non-empty value outside the allowed set is a validation error that
// must name the offending value and the allowed set.

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the semantic type of a spreadsheet column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
	KindBool
	KindEnum
	// KindPrice is numeric with large-delta warning semantics on diff.
	KindPrice
)

// DateLayout is the canonical date form used throughout the service.
const DateLayout = "2006-01-02"

// excelEpoch is day zero of the Excel serial date system. Excel treats 1900
// as a leap year, so the epoch is 1899-12-30 rather than 1899-12-31.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial caps serial date interpretation at year ~2173; larger
// numbers in a date column are treated as unrecognized.
const maxExcelSerial = 100000

// Value is a normalized cell value. Valid reports whether a value was
// supplied at all: empty and unrecognized input both produce an invalid
// Value, which downstream code treats as "no value".
type Value struct {
	Kind  Kind
	Str   string
	Num   float64
	Bool  bool
	Valid bool
}

// String returns the canonical string form of the value, as used in change
// lists and audit entries. Invalid values render as the empty string.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	switch v.Kind {
	case KindNumber, KindPrice:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "Yes"
		}
		return "No"
	default:
		return v.Str
	}
}

// Normalize converts a raw cell value to the canonical Value for the given
// field. The returned error is non-nil only for enum fields carrying a
// non-empty value outside the allowed set.
func Normalize(raw string, f Field) (Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Kind: f.Kind}, nil
	}

	switch f.Kind {
	case KindNumber, KindPrice:
		return normalizeNumber(raw, f.Kind), nil
	case KindDate:
		return NormalizeDate(raw), nil
	case KindBool:
		return normalizeBool(raw), nil
	case KindEnum:
		return normalizeEnum(raw, f)
	default:
		return Value{Kind: KindString, Str: raw, Valid: true}, nil
	}
}

// NormalizeDate parses a date cell into its canonical ISO form. Accepted
// inputs: Excel serial day counts, DD/MM/YYYY, ISO YYYY-MM-DD (date portion
// of longer timestamps), and YYYY/MM/DD. Unrecognized input is invalid.
func NormalizeDate(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Kind: KindDate}
	}

	// Excel serial date: a bare number with no separators. The fractional
	// part is time-of-day and is dropped (date portion only).
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 || serial > maxExcelSerial {
			return Value{Kind: KindDate}
		}
		t := excelEpoch.AddDate(0, 0, int(serial))
		return Value{Kind: KindDate, Str: t.Format(DateLayout), Valid: true}
	}

	// ISO timestamps: take the date portion only.
	if len(raw) > len(DateLayout) && (raw[4] == '-' || raw[4] == '/') {
		raw = raw[:len(DateLayout)]
	}

	for _, layout := range []string{"02/01/2006", "2/1/2006", DateLayout, "2006/01/02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return Value{Kind: KindDate, Str: t.Format(DateLayout), Valid: true}
		}
	}

	return Value{Kind: KindDate}
}

func normalizeNumber(raw string, kind Kind) Value {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.TrimLeft(s, "€$£")
	s = strings.TrimSpace(s)

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{Kind: kind}
	}
	return Value{Kind: kind, Num: n, Valid: true}
}

func normalizeBool(raw string) Value {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return Value{Kind: KindBool, Bool: true, Valid: true}
	default:
		return Value{Kind: KindBool, Bool: false, Valid: true}
	}
}

func normalizeEnum(raw string, f Field) (Value, error) {
	for _, allowed := range f.Enum {
		if raw == allowed {
			return Value{Kind: KindEnum, Str: raw, Valid: true}, nil
		}
	}
	return Value{Kind: KindEnum}, fmt.Errorf("invalid value %q for %s (allowed: %s)",
		raw, f.Header, strings.Join(f.Enum, ", "))
}

// equalValues reports whether two normalized values are the same for diff
// purposes. Invalid values ("no value") compare equal to each other, numeric
// comparison coerces both sides to numbers, and boolean comparison
// normalizes string forms first.
func equalValues(a, b Value) bool {
	if !a.Valid && !b.Valid {
		return true
	}
	if a.Valid != b.Valid {
		return false
	}

	if a.Kind == b.Kind {
		switch a.Kind {
		case KindNumber, KindPrice:
			return a.Num == b.Num
		case KindBool:
			return a.Bool == b.Bool
		default:
			return a.Str == b.Str
		}
	}

	// Mixed kinds: compare numerically when both sides parse as numbers,
	// so a stored "100000" equals an incoming 100000.
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		return an == bn
	}
	return a.String() == b.String()
}

func asNumber(v Value) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	switch v.Kind {
	case KindNumber, KindPrice:
		return v.Num, true
	case KindBool:
		return 0, false
	default:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return n, err == nil
	}
}
