package storage

import "propfacts/internal/transform"

// PropertyValues flattens property rows into insert values, one slice per
// row, in the properties TableSpec column order. Absent optional fields
// become SQL NULL.
func PropertyValues(rows []transform.PropertyRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.PropertyID,
			r.PropertyTitle,
			r.Address,
			r.StreetAddress,
			r.City,
			r.State,
			r.ZipCode,
			r.Latitude,
			r.Longitude,
			r.PropertyType,
			optInt(r.YearBuilt),
			optFloat(r.SqftTotal),
			optFloat(r.SqftBasement),
			optFloat(r.SqftMU),
			optInt(r.Bed),
			optInt(r.Bath),
			optString(r.Layout),
			optString(r.Pool),
			optString(r.Parking),
			optString(r.BasementYesNo),
			optString(r.Water),
			optString(r.Sewage),
			optString(r.HTW),
			optString(r.Commercial),
			optString(r.Highway),
			optString(r.Train),
			optString(r.Flood),
			optString(r.Occupancy),
			optFloat(r.NetYield),
			optFloat(r.IRR),
			optFloat(r.Taxes),
			optFloat(r.TaxRate),
			optString(r.Market),
			optString(r.Source),
			optInt(r.NeighborhoodRating),
			optFloat(r.SchoolAverage),
			optString(r.Subdivision),
			optString(r.ReviewedStatus),
			optString(r.MostRecentStatus),
			optString(r.SellingReason),
			optString(r.FinalReviewer),
			optString(r.SellerRetainedBroker),
			optString(r.RentRestricted),
		})
	}
	return out
}

// ValuationValues flattens valuation rows in the valuations column order.
func ValuationValues(rows []transform.ValuationRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.PropertyID,
			r.ValuationIndex,
			optFloat(r.ListPrice),
			optFloat(r.PreviousRent),
			optFloat(r.ARV),
			optFloat(r.RentZestimate),
			optFloat(r.LowFMR),
			optFloat(r.HighFMR),
			optFloat(r.Zestimate),
			optFloat(r.ExpectedRent),
			optFloat(r.RedfinValue),
		})
	}
	return out
}

// HOAFeeValues flattens HOA fee rows in the hoa_fees column order.
func HOAFeeValues(rows []transform.HOAFeeRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.PropertyID,
			r.HOAIndex,
			optFloat(r.Amount),
			optString(r.Flag),
		})
	}
	return out
}

// RehabValues flattens rehab assessment rows in the rehab_assessments
// column order.
func RehabValues(rows []transform.RehabRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.PropertyID,
			r.RehabIndex,
			optFloat(r.UnderwritingRehab),
			optFloat(r.RehabCalculation),
			optString(r.Paint),
			optString(r.FlooringFlag),
			optString(r.FoundationFlag),
			optString(r.RoofFlag),
			optString(r.HVACFlag),
			optString(r.KitchenFlag),
			optString(r.BathroomFlag),
			optString(r.AppliancesFlag),
			optString(r.WindowsFlag),
			optString(r.LandscapingFlag),
			optString(r.TrashoutFlag),
		})
	}
	return out
}

// DimensionValues maps each dimension table to its sorted distinct values.
func DimensionValues(dims transform.DimensionSet) map[string][]string {
	return map[string][]string{
		TableDimMarkets:       transform.SortedValues(dims.Markets),
		TableDimSources:       transform.SortedValues(dims.Sources),
		TableDimPropertyTypes: transform.SortedValues(dims.PropertyTypes),
		TableDimLayouts:       transform.SortedValues(dims.Layouts),
	}
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func optFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func optInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
