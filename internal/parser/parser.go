// Package parser turns repaired JSON text into generic record maps.
//
// It is the hand-off point between the textual repair stage and schema
// validation: structure (objects, arrays, scalars) is established here, typing
// is not. Numbers are kept as json.Number so the validator decides between
// int and float per field.
//
// A parse failure is fatal for the whole input; there is no record boundary
// to recover at. The error carries line/column plus the surrounding source
// lines so the caller can diagnose what the repair rules did not catch.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is one top-level property record, structurally parsed but untyped.
type Record map[string]any

// SyntaxError reports a residual structural defect in repaired text.
type SyntaxError struct {
	Line    int
	Column  int
	Msg     string
	Context string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse: line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Records parses text into a flat record list. A root array yields its
// elements in order; a root object yields a single record. Any other root,
// or a non-object array element, is a *SyntaxError.
func Records(text string) ([]Record, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, locateError(text, 0, "empty input")
		}
		return nil, wrapDecodeError(text, dec, err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, locateError(text, dec.InputOffset(), fmt.Sprintf("root must be an object or array, got %v", tok))
	}

	switch delim {
	case '{':
		// Single record: re-decode from the start so the whole object
		// materializes in one step.
		one := json.NewDecoder(strings.NewReader(text))
		one.UseNumber()
		var rec Record
		if err := one.Decode(&rec); err != nil {
			return nil, wrapDecodeError(text, one, err)
		}
		return []Record{rec}, nil

	case '[':
		var out []Record
		for dec.More() {
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return nil, wrapDecodeError(text, dec, err)
			}
			if raw == nil {
				continue
			}
			obj, ok := raw.(map[string]any)
			if !ok {
				return nil, locateError(text, dec.InputOffset(), fmt.Sprintf("array element %d is not an object (got %T)", len(out)+1, raw))
			}
			out = append(out, Record(obj))
		}
		if _, err := dec.Token(); err != nil {
			return nil, wrapDecodeError(text, dec, err)
		}
		return out, nil

	default:
		return nil, locateError(text, dec.InputOffset(), fmt.Sprintf("unexpected root delimiter %q", delim))
	}
}

// wrapDecodeError converts encoding/json errors into located SyntaxErrors.
func wrapDecodeError(text string, dec *json.Decoder, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return locateError(text, syn.Offset, syn.Error())
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return locateError(text, typ.Offset, err.Error())
	}
	return locateError(text, dec.InputOffset(), err.Error())
}

func locateError(text string, offset int64, msg string) *SyntaxError {
	line, col := locate(text, offset)
	return &SyntaxError{
		Line:    line,
		Column:  col,
		Msg:     msg,
		Context: contextLines(text, line),
	}
}

// locate converts a byte offset into 1-based line/column coordinates.
func locate(text string, offset int64) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	line, col = 1, 1
	for _, b := range []byte(text[:offset]) {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// contextLines renders the error line and its neighbors, with the failing
// line marked, for operator-facing diagnostics.
func contextLines(text string, errLine int) string {
	lines := strings.Split(text, "\n")
	start := errLine - 2
	if start < 0 {
		start = 0
	}
	end := errLine + 1
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "    "
		if i == errLine-1 {
			marker = ">>> "
		}
		src := lines[i]
		if len(src) > 100 {
			src = src[:100]
		}
		fmt.Fprintf(&b, "%sline %d: %s\n", marker, i+1, src)
	}
	return strings.TrimRight(b.String(), "\n")
}
