package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldError describes one field-level coercion or presence problem.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Tri-state canonical tokens. Anything else coerces to absent, never to an
// error.
const (
	FlagYes = "YES"
	FlagNo  = "NO"
)

// coerceFloat converts v to a float. Numeric literals pass through; strings
// are parsed directly first, then with all non-digit/non-decimal-point
// characters stripped ("5649 sqft", "$1,234.50"). A string yielding no
// parseable digits is absent, not an error. Structurally wrong values
// (bool, object, array) are errors.
func coerceFloat(field string, v any) (*float64, *FieldError) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fieldErr(field, "invalid number %q", t.String())
		}
		return &f, nil
	case float64:
		return &t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f, nil
		}
		stripped := stripNumeric(s)
		if stripped == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return nil, nil
		}
		return &f, nil
	default:
		return nil, fieldErr(field, "expected a number, got %T", v)
	}
}

// coerceInt converts v to an integer. Floats with a fractional part are
// errors; integral floats are accepted. String handling mirrors coerceFloat.
func coerceInt(field string, v any) (*int64, *FieldError) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return &n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fieldErr(field, "invalid number %q", t.String())
		}
		return floatToInt(field, f)
	case nil:
		return nil, nil
	case float64:
		return floatToInt(field, t)
	case string:
		f, ferr := coerceFloat(field, t)
		if ferr != nil || f == nil {
			return nil, ferr
		}
		return floatToInt(field, *f)
	default:
		return nil, fieldErr(field, "expected an integer, got %T", v)
	}
}

func floatToInt(field string, f float64) (*int64, *FieldError) {
	n := int64(f)
	if float64(n) != f {
		return nil, fieldErr(field, "expected an integer, got fractional number %v", f)
	}
	return &n, nil
}

// coerceString requires an actual string value.
func coerceString(field string, v any) (*string, *FieldError) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &t, nil
	default:
		return nil, fieldErr(field, "expected a string, got %T", v)
	}
}

// coerceTriState normalizes yes/no flags to their uppercase canonical tokens.
// Any other value, string or not, is absent. Lossy and non-failing.
func coerceTriState(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case FlagYes:
		out := FlagYes
		return &out
	case FlagNo:
		out := FlagNo
		return &out
	default:
		return nil
	}
}

// coerceNonEmptyString maps empty or whitespace-only strings to absent.
// Used for fields where an empty string carries no meaning (review status,
// occupancy, flood flag).
func coerceNonEmptyString(field string, v any) (*string, *FieldError) {
	s, err := coerceString(field, v)
	if err != nil || s == nil {
		return nil, err
	}
	if strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	return s, nil
}

// stripNumeric keeps digits and decimal points, plus a leading minus sign so
// signed coordinates written as strings survive coercion.
func stripNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	neg := strings.HasPrefix(strings.TrimSpace(s), "-")
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
