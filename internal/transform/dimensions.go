package transform

import "sort"

// DimensionSet holds the distinct values of the categorical property fields.
// Membership only; no counts. Recomputable at any time from properties rows
// alone.
type DimensionSet struct {
	Markets       map[string]struct{}
	Sources       map[string]struct{}
	PropertyTypes map[string]struct{}
	Layouts       map[string]struct{}
}

// ExtractDimensions collects distinct non-empty market, source, property-type
// and layout values across all property rows.
func ExtractDimensions(properties []PropertyRow) DimensionSet {
	dims := DimensionSet{
		Markets:       make(map[string]struct{}),
		Sources:       make(map[string]struct{}),
		PropertyTypes: make(map[string]struct{}),
		Layouts:       make(map[string]struct{}),
	}
	for _, row := range properties {
		addOptional(dims.Markets, row.Market)
		addOptional(dims.Sources, row.Source)
		add(dims.PropertyTypes, row.PropertyType)
		addOptional(dims.Layouts, row.Layout)
	}
	return dims
}

// SortedValues returns a dimension's members in lexical order, for
// deterministic logging and storage.
func SortedValues(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func add(set map[string]struct{}, v string) {
	if v == "" {
		return
	}
	set[v] = struct{}{}
}

func addOptional(set map[string]struct{}, v *string) {
	if v == nil {
		return
	}
	add(set, *v)
}
