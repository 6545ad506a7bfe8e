package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRecordsRootArray(t *testing.T) {
	recs, err := Records(`[{"City": "Dallas"}, {"City": "Austin"}]`)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0]["City"] != "Dallas" || recs[1]["City"] != "Austin" {
		t.Fatalf("records = %v", recs)
	}
}

func TestRecordsRootObject(t *testing.T) {
	recs, err := Records(`{"City": "Dallas", "Bed": 3}`)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	// Numbers stay as json.Number until the validator types them.
	if _, ok := recs[0]["Bed"].(json.Number); !ok {
		t.Fatalf("Bed = %T, want json.Number", recs[0]["Bed"])
	}
}

func TestRecordsSyntaxErrorHasLocation(t *testing.T) {
	in := "[\n  {\"City\": \"Dallas\"},\n  {\"City\": }\n]"
	_, err := Records(in)
	if err == nil {
		t.Fatal("expected error")
	}

	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("error type = %T, want *SyntaxError", err)
	}
	if syn.Line != 3 {
		t.Errorf("line = %d, want 3", syn.Line)
	}
	if !strings.Contains(syn.Context, ">>> line 3") {
		t.Errorf("context missing marker:\n%s", syn.Context)
	}
}

func TestRecordsRejectsNonObjectElement(t *testing.T) {
	_, err := Records(`[{"City": "Dallas"}, 42]`)
	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("err = %v, want *SyntaxError", err)
	}
	if !strings.Contains(syn.Msg, "not an object") {
		t.Errorf("msg = %q", syn.Msg)
	}
}

func TestRecordsRejectsScalarRoot(t *testing.T) {
	_, err := Records(`42`)
	if err == nil {
		t.Fatal("expected error for scalar root")
	}
}

func TestRecordsEmptyInput(t *testing.T) {
	_, err := Records("")
	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("err = %v, want *SyntaxError", err)
	}
}

func TestLocate(t *testing.T) {
	text := "ab\ncd\nef"
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 3, 2},
		{99, 3, 3},
	}
	for _, tc := range tests {
		line, col := locate(text, tc.offset)
		if line != tc.line || col != tc.col {
			t.Errorf("locate(%d) = (%d,%d), want (%d,%d)", tc.offset, line, col, tc.line, tc.col)
		}
	}
}
