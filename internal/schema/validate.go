package schema

import (
	"propfacts/internal/parser"
)

// propertyField binds a canonical field name to its coercion-and-assign
// function. The table is built once and iterated uniformly by Validate;
// there is no reflection anywhere in the hot path.
type propertyField struct {
	name     string
	required bool
	set      func(p *Property, field string, v any) *FieldError
}

var propertyFields = []propertyField{
	{name: "property_title", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.PropertyTitle, f, v) }},
	{name: "address", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.Address, f, v) }},
	{name: "street_address", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.StreetAddress, f, v) }},
	{name: "city", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.City, f, v) }},
	{name: "state", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.State, f, v) }},
	{name: "zip_code", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.ZipCode, f, v) }},
	{name: "latitude", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqFloat(&p.Latitude, f, v) }},
	{name: "longitude", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqFloat(&p.Longitude, f, v) }},
	{name: "property_type", required: true, set: func(p *Property, f string, v any) *FieldError { return assignReqString(&p.PropertyType, f, v) }},

	{name: "year_built", set: func(p *Property, f string, v any) *FieldError { return assignInt(&p.YearBuilt, f, v) }},
	{name: "sqft_total", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.SqftTotal, f, v) }},
	{name: "sqft_basement", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.SqftBasement, f, v) }},
	{name: "sqft_mu", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.SqftMU, f, v) }},
	{name: "bed", set: func(p *Property, f string, v any) *FieldError { return assignInt(&p.Bed, f, v) }},
	{name: "bath", set: func(p *Property, f string, v any) *FieldError { return assignInt(&p.Bath, f, v) }},

	{name: "layout", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Layout, f, v) }},
	{name: "pool", set: func(p *Property, f string, v any) *FieldError { return assignTriState(&p.Pool, v) }},
	{name: "parking", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Parking, f, v) }},
	{name: "basement_yes_no", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.BasementYesNo, f, v) }},
	{name: "water", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Water, f, v) }},
	{name: "sewage", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Sewage, f, v) }},
	{name: "htw", set: func(p *Property, f string, v any) *FieldError { return assignTriState(&p.HTW, v) }},
	{name: "commercial", set: func(p *Property, f string, v any) *FieldError { return assignTriState(&p.Commercial, v) }},
	{name: "highway", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Highway, f, v) }},
	{name: "train", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Train, f, v) }},
	{name: "flood", set: func(p *Property, f string, v any) *FieldError { return assignNonEmptyString(&p.Flood, f, v) }},
	{name: "occupancy", set: func(p *Property, f string, v any) *FieldError { return assignNonEmptyString(&p.Occupancy, f, v) }},

	{name: "net_yield", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.NetYield, f, v) }},
	{name: "irr", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.IRR, f, v) }},
	{name: "taxes", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.Taxes, f, v) }},
	{name: "tax_rate", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.TaxRate, f, v) }},

	{name: "market", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Market, f, v) }},
	{name: "source", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Source, f, v) }},
	{name: "neighborhood_rating", set: func(p *Property, f string, v any) *FieldError { return assignInt(&p.NeighborhoodRating, f, v) }},
	{name: "school_average", set: func(p *Property, f string, v any) *FieldError { return assignFloat(&p.SchoolAverage, f, v) }},
	{name: "subdivision", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.Subdivision, f, v) }},

	{name: "reviewed_status", set: func(p *Property, f string, v any) *FieldError { return assignNonEmptyString(&p.ReviewedStatus, f, v) }},
	{name: "most_recent_status", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.MostRecentStatus, f, v) }},
	{name: "selling_reason", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.SellingReason, f, v) }},
	{name: "final_reviewer", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.FinalReviewer, f, v) }},
	{name: "seller_retained_broker", set: func(p *Property, f string, v any) *FieldError { return assignString(&p.SellerRetainedBroker, f, v) }},
	{name: "rent_restricted", set: func(p *Property, f string, v any) *FieldError { return assignTriState(&p.RentRestricted, v) }},
}

var propertyAliasIndex = buildAliasIndex(
	append(propertyFieldNames(), "valuation", "hoa", "rehab"),
	map[string][]string{"zip_code": {"Zip"}},
)

func propertyFieldNames() []string {
	out := make([]string, 0, len(propertyFields))
	for _, fs := range propertyFields {
		out = append(out, fs.name)
	}
	return out
}

// Validate coerces one raw record into a Property. On success the error list
// is empty. On failure it enumerates every field-level problem found, not
// just the first, and the returned Property must be discarded.
func Validate(rec parser.Record) (Property, []FieldError) {
	resolved := resolveFields(rec, propertyAliasIndex)

	var p Property
	var errs []FieldError

	for _, fs := range propertyFields {
		v, present := resolved[fs.name]
		if !present || v == nil {
			if fs.required {
				errs = append(errs, *fieldErr(fs.name, "required field is missing"))
			}
			continue
		}
		if err := fs.set(&p, fs.name, v); err != nil {
			errs = append(errs, *err)
		}
	}

	var collErrs []FieldError
	p.Valuations, collErrs = coerceValuationList(resolved["valuation"])
	errs = append(errs, collErrs...)
	p.HOA, collErrs = coerceHOAList(resolved["hoa"])
	errs = append(errs, collErrs...)
	p.Rehab, collErrs = coerceRehabList(resolved["rehab"])
	errs = append(errs, collErrs...)

	if len(errs) > 0 {
		return Property{}, errs
	}
	return p, nil
}

// ---- assignment helpers (coerce + store) ----

func assignReqString(dst *string, field string, v any) *FieldError {
	s, err := coerceString(field, v)
	if err != nil {
		return err
	}
	if s == nil {
		return fieldErr(field, "required field is missing")
	}
	*dst = *s
	return nil
}

func assignReqFloat(dst *float64, field string, v any) *FieldError {
	f, err := coerceFloat(field, v)
	if err != nil {
		return err
	}
	if f == nil {
		return fieldErr(field, "value %v could not be coerced to a number", v)
	}
	*dst = *f
	return nil
}

func assignString(dst **string, field string, v any) *FieldError {
	s, err := coerceString(field, v)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func assignNonEmptyString(dst **string, field string, v any) *FieldError {
	s, err := coerceNonEmptyString(field, v)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func assignFloat(dst **float64, field string, v any) *FieldError {
	f, err := coerceFloat(field, v)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func assignInt(dst **int64, field string, v any) *FieldError {
	n, err := coerceInt(field, v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func assignTriState(dst **string, v any) *FieldError {
	*dst = coerceTriState(v)
	return nil
}
