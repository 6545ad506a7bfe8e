package schema

import "fmt"

// Nested collections default to empty when absent; each element is coerced
// independently by its own field table, with errors prefixed by the element's
// position ("valuation[2].list_price").

type valuationField struct {
	name string
	set  func(r *ValuationRecord, field string, v any) *FieldError
}

var valuationFields = []valuationField{
	{name: "list_price", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.ListPrice, f, v) }},
	{name: "previous_rent", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.PreviousRent, f, v) }},
	{name: "arv", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.ARV, f, v) }},
	{name: "rent_zestimate", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.RentZestimate, f, v) }},
	{name: "low_fmr", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.LowFMR, f, v) }},
	{name: "high_fmr", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.HighFMR, f, v) }},
	{name: "zestimate", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.Zestimate, f, v) }},
	{name: "expected_rent", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.ExpectedRent, f, v) }},
	{name: "redfin_value", set: func(r *ValuationRecord, f string, v any) *FieldError { return assignFloat(&r.RedfinValue, f, v) }},
}

var valuationAliasIndex = buildAliasIndex(valuationFieldNames(), nil)

func valuationFieldNames() []string {
	out := make([]string, 0, len(valuationFields))
	for _, fs := range valuationFields {
		out = append(out, fs.name)
	}
	return out
}

type hoaField struct {
	name string
	set  func(r *HOARecord, field string, v any) *FieldError
}

var hoaFields = []hoaField{
	{name: "hoa_amount", set: func(r *HOARecord, f string, v any) *FieldError { return assignFloat(&r.Amount, f, v) }},
	{name: "hoa_flag", set: func(r *HOARecord, f string, v any) *FieldError { return assignTriState(&r.Flag, v) }},
}

var hoaAliasIndex = buildAliasIndex(
	[]string{"hoa_amount", "hoa_flag"},
	map[string][]string{"hoa_amount": {"HOA"}},
)

type rehabField struct {
	name string
	set  func(r *RehabRecord, field string, v any) *FieldError
}

var rehabFields = []rehabField{
	{name: "underwriting_rehab", set: func(r *RehabRecord, f string, v any) *FieldError { return assignFloat(&r.UnderwritingRehab, f, v) }},
	{name: "rehab_calculation", set: func(r *RehabRecord, f string, v any) *FieldError { return assignFloat(&r.RehabCalculation, f, v) }},
	{name: "paint", set: func(r *RehabRecord, f string, v any) *FieldError { return assignString(&r.Paint, f, v) }},
	{name: "flooring_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.FlooringFlag, v) }},
	{name: "foundation_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.FoundationFlag, v) }},
	{name: "roof_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.RoofFlag, v) }},
	{name: "hvac_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.HVACFlag, v) }},
	{name: "kitchen_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.KitchenFlag, v) }},
	{name: "bathroom_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.BathroomFlag, v) }},
	{name: "appliances_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.AppliancesFlag, v) }},
	{name: "windows_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.WindowsFlag, v) }},
	{name: "landscaping_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.LandscapingFlag, v) }},
	{name: "trashout_flag", set: func(r *RehabRecord, f string, v any) *FieldError { return assignTriState(&r.TrashoutFlag, v) }},
}

var rehabAliasIndex = buildAliasIndex(rehabFieldNames(), nil)

func rehabFieldNames() []string {
	out := make([]string, 0, len(rehabFields))
	for _, fs := range rehabFields {
		out = append(out, fs.name)
	}
	return out
}

// elementMaps checks that v is a sequence of objects. A wrong-shaped
// collection or element is a structural problem and fails the record.
func elementMaps(field string, v any) ([]map[string]any, []FieldError) {
	if v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, []FieldError{*fieldErr(field, "expected a list, got %T", v)}
	}
	out := make([]map[string]any, 0, len(arr))
	var errs []FieldError
	for i, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			errs = append(errs, *fieldErr(fmt.Sprintf("%s[%d]", field, i), "expected an object, got %T", el))
			continue
		}
		out = append(out, m)
	}
	return out, errs
}

func coerceValuationList(v any) ([]ValuationRecord, []FieldError) {
	maps, errs := elementMaps("valuation", v)
	out := make([]ValuationRecord, 0, len(maps))
	for i, m := range maps {
		resolved := resolveFields(m, valuationAliasIndex)
		var rec ValuationRecord
		for _, fs := range valuationFields {
			val, present := resolved[fs.name]
			if !present || val == nil {
				continue
			}
			if err := fs.set(&rec, fmt.Sprintf("valuation[%d].%s", i, fs.name), val); err != nil {
				errs = append(errs, *err)
			}
		}
		out = append(out, rec)
	}
	return out, errs
}

func coerceHOAList(v any) ([]HOARecord, []FieldError) {
	maps, errs := elementMaps("hoa", v)
	out := make([]HOARecord, 0, len(maps))
	for i, m := range maps {
		resolved := resolveFields(m, hoaAliasIndex)
		var rec HOARecord
		for _, fs := range hoaFields {
			val, present := resolved[fs.name]
			if !present || val == nil {
				continue
			}
			if err := fs.set(&rec, fmt.Sprintf("hoa[%d].%s", i, fs.name), val); err != nil {
				errs = append(errs, *err)
			}
		}
		out = append(out, rec)
	}
	return out, errs
}

func coerceRehabList(v any) ([]RehabRecord, []FieldError) {
	maps, errs := elementMaps("rehab", v)
	out := make([]RehabRecord, 0, len(maps))
	for i, m := range maps {
		resolved := resolveFields(m, rehabAliasIndex)
		var rec RehabRecord
		for _, fs := range rehabFields {
			val, present := resolved[fs.name]
			if !present || val == nil {
				continue
			}
			if err := fs.set(&rec, fmt.Sprintf("rehab[%d].%s", i, fs.name), val); err != nil {
				errs = append(errs, *err)
			}
		}
		out = append(out, rec)
	}
	return out, errs
}
