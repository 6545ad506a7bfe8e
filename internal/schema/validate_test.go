package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"propfacts/internal/parser"
)

// validRecord returns a record carrying every required field, which callers
// then mutate per test.
func validRecord() parser.Record {
	return parser.Record{
		"Property_Title": "Cozy bungalow",
		"Address":        "1 Main St, Springfield, TX 75000",
		"Street_Address": "1 Main St",
		"City":           "Springfield",
		"State":          "TX",
		"Zip":            "75000",
		"Latitude":       json.Number("32.7767"),
		"Longitude":      json.Number("-96.7970"),
		"Property_Type":  "Single Family",
	}
}

func TestValidateMinimalRecord(t *testing.T) {
	p, errs := Validate(validRecord())
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if p.City != "Springfield" || p.ZipCode != "75000" {
		t.Fatalf("p = %+v", p)
	}
	if p.Longitude != -96.7970 {
		t.Errorf("longitude = %v", p.Longitude)
	}
	if len(p.Valuations) != 0 || len(p.HOA) != 0 || len(p.Rehab) != 0 {
		t.Errorf("collections should default empty: %+v", p)
	}
}

func TestValidateMissingLatitude(t *testing.T) {
	rec := validRecord()
	delete(rec, "Latitude")

	_, errs := Validate(rec)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one", errs)
	}
	if errs[0].Field != "latitude" {
		t.Errorf("field = %q, want latitude", errs[0].Field)
	}
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	rec := validRecord()
	delete(rec, "Latitude")
	delete(rec, "Property_Type")
	rec["City"] = json.Number("3") // structurally wrong

	_, errs := Validate(rec)
	if len(errs) != 3 {
		t.Fatalf("errs = %v, want 3", errs)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"latitude", "property_type", "city"} {
		if !fields[want] {
			t.Errorf("missing error for %s in %v", want, errs)
		}
	}
}

func TestValidateSqftWithUnitSuffix(t *testing.T) {
	rec := validRecord()
	rec["SQFT_Total"] = "5649 sqft"

	p, errs := Validate(rec)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if p.SqftTotal == nil || *p.SqftTotal != 5649 {
		t.Fatalf("sqft_total = %v, want 5649", p.SqftTotal)
	}
}

func TestValidateNumericStringForms(t *testing.T) {
	tests := []struct {
		in   any
		want *float64
	}{
		{json.Number("1250.5"), ptrFloat(1250.5)},
		{"$1,234.50", ptrFloat(1234.50)},
		{"-97.7", ptrFloat(-97.7)},
		{"n/a", nil},
		{"", nil},
	}
	for _, tc := range tests {
		rec := validRecord()
		rec["Taxes"] = tc.in
		p, errs := Validate(rec)
		if len(errs) != 0 {
			t.Fatalf("Taxes=%v: errs = %v", tc.in, errs)
		}
		switch {
		case tc.want == nil && p.Taxes != nil:
			t.Errorf("Taxes=%v: got %v, want absent", tc.in, *p.Taxes)
		case tc.want != nil && (p.Taxes == nil || *p.Taxes != *tc.want):
			t.Errorf("Taxes=%v: got %v, want %v", tc.in, p.Taxes, *tc.want)
		}
	}
}

func TestValidateTriStateNormalization(t *testing.T) {
	tests := []struct {
		in   any
		want *string
	}{
		{"yes", ptrString("YES")},
		{" No ", ptrString("NO")},
		{"YES", ptrString("YES")},
		{"maybe", nil},
		{"", nil},
		{json.Number("1"), nil},
	}
	for _, tc := range tests {
		rec := validRecord()
		rec["Pool"] = tc.in
		p, errs := Validate(rec)
		if len(errs) != 0 {
			t.Fatalf("Pool=%v: tri-state input must never fail, got %v", tc.in, errs)
		}
		switch {
		case tc.want == nil && p.Pool != nil:
			t.Errorf("Pool=%v: got %q, want absent", tc.in, *p.Pool)
		case tc.want != nil && (p.Pool == nil || *p.Pool != *tc.want):
			t.Errorf("Pool=%v: got %v, want %q", tc.in, p.Pool, *tc.want)
		}
	}
}

func TestValidateEmptyStringIsAbsent(t *testing.T) {
	rec := validRecord()
	rec["Reviewed_Status"] = "   "
	rec["Occupancy"] = ""
	rec["Flood"] = "Zone AE"

	p, errs := Validate(rec)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if p.ReviewedStatus != nil || p.Occupancy != nil {
		t.Errorf("whitespace-only fields must be absent: %+v", p)
	}
	if p.Flood == nil || *p.Flood != "Zone AE" {
		t.Errorf("flood = %v", p.Flood)
	}
}

func TestValidateAliasAndCaseInsensitivity(t *testing.T) {
	rec := parser.Record{
		"property_title": "A",
		"ADDRESS":        "1 Main St",
		"street-address": "1 Main St",
		"city":           "Dallas",
		"state":          "TX",
		"zip_code":       "75001",
		"latitude":       json.Number("32.0"),
		"LONGITUDE":      json.Number("-96.0"),
		"propertytype":   "Condo",
	}
	p, errs := Validate(rec)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if p.PropertyType != "Condo" || p.StreetAddress != "1 Main St" {
		t.Fatalf("p = %+v", p)
	}
}

func TestValidateNestedCollections(t *testing.T) {
	rec := validRecord()
	rec["Valuation"] = []any{
		map[string]any{"List_Price": json.Number("150000"), "ARV": "180000"},
		map[string]any{"Rent_Zestimate": json.Number("1500.50")},
	}
	rec["HOA"] = []any{
		map[string]any{"HOA": json.Number("250"), "HOA_Flag": "yes"},
	}
	rec["Rehab"] = []any{
		map[string]any{
			"Underwriting_Rehab": json.Number("20000"),
			"Paint":              "full repaint",
			"Roof_Flag":          "no",
			"Kitchen_Flag":       "unknown",
		},
	}

	p, errs := Validate(rec)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(p.Valuations) != 2 {
		t.Fatalf("valuations = %d, want 2", len(p.Valuations))
	}
	if p.Valuations[0].ARV == nil || *p.Valuations[0].ARV != 180000 {
		t.Errorf("arv = %v", p.Valuations[0].ARV)
	}
	if len(p.HOA) != 1 || p.HOA[0].Flag == nil || *p.HOA[0].Flag != "YES" {
		t.Errorf("hoa = %+v", p.HOA)
	}
	r := p.Rehab[0]
	if r.RoofFlag == nil || *r.RoofFlag != "NO" {
		t.Errorf("roof = %v", r.RoofFlag)
	}
	if r.KitchenFlag != nil {
		t.Errorf("kitchen = %v, want absent for unknown value", *r.KitchenFlag)
	}
	if r.Paint == nil || *r.Paint != "full repaint" {
		t.Errorf("paint = %v", r.Paint)
	}
}

func TestValidateRejectsMalformedCollection(t *testing.T) {
	rec := validRecord()
	rec["Valuation"] = "not a list"

	_, errs := Validate(rec)
	if len(errs) != 1 || errs[0].Field != "valuation" {
		t.Fatalf("errs = %v", errs)
	}
}

func TestValidateBatchOrderPreserved(t *testing.T) {
	records := make([]parser.Record, 0, 40)
	for i := 0; i < 40; i++ {
		rec := validRecord()
		rec["Property_Title"] = fmt.Sprintf("prop-%02d", i)
		if i%3 == 0 {
			delete(rec, "Latitude") // every third record fails
		}
		records = append(records, rec)
	}

	valid, failures := ValidateBatch(records, BatchOptions{Workers: 8})

	// Valid list keeps original relative order.
	last := ""
	for _, p := range valid {
		if p.PropertyTitle <= last {
			t.Fatalf("valid order broken: %q after %q", p.PropertyTitle, last)
		}
		last = p.PropertyTitle
	}

	// Failure indices strictly increase and are 1-based.
	prev := 0
	for _, f := range failures {
		if f.RecordIndex <= prev {
			t.Fatalf("failure order broken: %d after %d", f.RecordIndex, prev)
		}
		prev = f.RecordIndex
	}
	if len(valid)+len(failures) != len(records) {
		t.Fatalf("valid=%d failures=%d records=%d", len(valid), len(failures), len(records))
	}
	if failures[0].RecordIndex != 1 {
		t.Fatalf("first failure index = %d, want 1", failures[0].RecordIndex)
	}
}

func TestValidateBatchMaxRecords(t *testing.T) {
	records := []parser.Record{validRecord(), validRecord(), validRecord()}
	valid, failures := ValidateBatch(records, BatchOptions{MaxRecords: 2})
	if len(valid) != 2 || len(failures) != 0 {
		t.Fatalf("valid=%d failures=%d, want 2/0", len(valid), len(failures))
	}
}

func TestValidateBatchStopOnFirstFailure(t *testing.T) {
	bad := validRecord()
	delete(bad, "City")
	records := []parser.Record{validRecord(), bad, validRecord()}

	valid, failures := ValidateBatch(records, BatchOptions{StopOnFirstFailure: true})
	if len(valid) != 1 {
		t.Fatalf("valid = %d, want 1 (records after the failure must not be processed)", len(valid))
	}
	if len(failures) != 1 || failures[0].RecordIndex != 2 {
		t.Fatalf("failures = %+v", failures)
	}
}

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Property_Title", "propertytitle"},
		{"BasementYesNo", "basementyesno"},
		{"SQFT_MU", "sqftmu"},
		{"street-address", "streetaddress"},
		{"HOA_Flag", "hoaflag"},
	}
	for _, tc := range tests {
		if got := normalizeFieldName(tc.in); got != tc.want {
			t.Errorf("normalizeFieldName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidationFailureMessageIncludesField(t *testing.T) {
	rec := validRecord()
	delete(rec, "Property_Type")
	_, errs := Validate(rec)
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	if !strings.Contains(errs[0].String(), "property_type") {
		t.Errorf("message = %q", errs[0].String())
	}
}

func ptrFloat(f float64) *float64 { return &f }
func ptrString(s string) *string  { return &s }
