package transform

import (
	"fmt"
	"testing"

	"propfacts/internal/schema"
)

func prop(title string, valuations, hoa, rehab int) schema.Property {
	p := schema.Property{
		PropertyTitle: title,
		Address:       "1 Main St",
		StreetAddress: "1 Main St",
		City:          "Dallas",
		State:         "TX",
		ZipCode:       "75001",
		Latitude:      32.0,
		Longitude:     -96.0,
		PropertyType:  "Single Family",
	}
	for i := 0; i < valuations; i++ {
		price := float64(100000 + i)
		p.Valuations = append(p.Valuations, schema.ValuationRecord{ListPrice: &price})
	}
	for i := 0; i < hoa; i++ {
		amount := float64(200 + i)
		p.HOA = append(p.HOA, schema.HOARecord{Amount: &amount})
	}
	for i := 0; i < rehab; i++ {
		cost := float64(5000 + i)
		p.Rehab = append(p.Rehab, schema.RehabRecord{UnderwritingRehab: &cost})
	}
	return p
}

func TestDenormalizeSurrogateKeys(t *testing.T) {
	facts := Denormalize([]schema.Property{
		prop("a", 2, 0, 1),
		prop("b", 0, 3, 0),
		prop("c", 1, 1, 1),
	})

	if len(facts.Properties) != 3 {
		t.Fatalf("properties = %d, want 3", len(facts.Properties))
	}
	for i, row := range facts.Properties {
		if row.PropertyID != int64(i+1) {
			t.Errorf("property %d id = %d, want %d", i, row.PropertyID, i+1)
		}
	}

	if len(facts.Valuations) != 3 {
		t.Fatalf("valuations = %d, want 3", len(facts.Valuations))
	}
	if len(facts.HOAFees) != 4 {
		t.Fatalf("hoa_fees = %d, want 4", len(facts.HOAFees))
	}
	if len(facts.RehabAssessments) != 2 {
		t.Fatalf("rehab_assessments = %d, want 2", len(facts.RehabAssessments))
	}
}

func TestDenormalizeChildIndexesAndCounts(t *testing.T) {
	facts := Denormalize([]schema.Property{prop("a", 2, 0, 0)})

	if len(facts.Valuations) != 2 {
		t.Fatalf("valuations = %d, want 2", len(facts.Valuations))
	}
	for i, v := range facts.Valuations {
		if v.PropertyID != 1 {
			t.Errorf("valuation %d property_id = %d, want 1", i, v.PropertyID)
		}
		if v.ValuationIndex != int64(i+1) {
			t.Errorf("valuation %d index = %d, want %d", i, v.ValuationIndex, i+1)
		}
	}
	// Zero children contribute zero rows, not null rows.
	if len(facts.HOAFees) != 0 {
		t.Fatalf("hoa_fees = %d, want 0", len(facts.HOAFees))
	}
}

func TestDenormalizeReferentialIntegrity(t *testing.T) {
	props := []schema.Property{
		prop("a", 3, 1, 2),
		prop("b", 0, 0, 0),
		prop("c", 1, 4, 1),
	}
	facts := Denormalize(props)

	known := map[int64]bool{}
	for _, row := range facts.Properties {
		known[row.PropertyID] = true
	}

	valuationCounts := map[int64]int{}
	for _, v := range facts.Valuations {
		if !known[v.PropertyID] {
			t.Fatalf("orphaned valuation row: property_id=%d", v.PropertyID)
		}
		valuationCounts[v.PropertyID]++
	}
	for i, p := range props {
		if valuationCounts[int64(i+1)] != len(p.Valuations) {
			t.Errorf("property %d valuation rows = %d, want %d", i+1, valuationCounts[int64(i+1)], len(p.Valuations))
		}
	}

	for _, h := range facts.HOAFees {
		if !known[h.PropertyID] {
			t.Fatalf("orphaned hoa row: property_id=%d", h.PropertyID)
		}
	}
	for _, r := range facts.RehabAssessments {
		if !known[r.PropertyID] {
			t.Fatalf("orphaned rehab row: property_id=%d", r.PropertyID)
		}
	}
}

func TestDenormalizeEmptyInput(t *testing.T) {
	facts := Denormalize(nil)
	if len(facts.Properties) != 0 || len(facts.Valuations) != 0 {
		t.Fatalf("facts = %+v, want empty", facts)
	}
}

func TestExtractDimensions(t *testing.T) {
	dallas, austin := "Dallas", "Austin"
	src := "mls"
	layout := "2/1"

	rows := []PropertyRow{
		{PropertyType: "Single Family", Market: &dallas, Source: &src},
		{PropertyType: "Single Family", Market: &dallas, Layout: &layout},
		{PropertyType: "Condo", Market: &austin},
		{PropertyType: "Condo"},
	}

	dims := ExtractDimensions(rows)
	if len(dims.Markets) != 2 {
		t.Errorf("markets = %v, want {Dallas, Austin}", SortedValues(dims.Markets))
	}
	if len(dims.Sources) != 1 || len(dims.Layouts) != 1 {
		t.Errorf("sources = %v layouts = %v", dims.Sources, dims.Layouts)
	}
	if len(dims.PropertyTypes) != 2 {
		t.Errorf("property types = %v", SortedValues(dims.PropertyTypes))
	}

	want := []string{"Austin", "Dallas"}
	got := SortedValues(dims.Markets)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("sorted markets = %v, want %v", got, want)
	}
}

func TestExtractDimensionsSkipsEmpty(t *testing.T) {
	empty := ""
	rows := []PropertyRow{{PropertyType: "", Market: &empty}}
	dims := ExtractDimensions(rows)
	if len(dims.Markets) != 0 || len(dims.PropertyTypes) != 0 {
		t.Fatalf("dims = %+v, want empty sets", dims)
	}
}
