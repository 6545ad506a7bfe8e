// Package transform flattens validated property records into normalized
// relational row sets and derives dimension value sets from them.
//
// Surrogate keys are positional: a property's id is its 1-based position in
// the output properties list, assigned in processing order; child rows carry
// that id plus a 1-based index local to their parent. Nothing is derived from
// input identifiers, so keys are stable and unique within one run.
package transform

import "propfacts/internal/schema"

// PropertyRow is one flat row of the properties fact table.
type PropertyRow struct {
	PropertyID int64

	PropertyTitle string
	Address       string
	StreetAddress string
	City          string
	State         string
	ZipCode       string
	Latitude      float64
	Longitude     float64
	PropertyType  string

	YearBuilt    *int64
	SqftTotal    *float64
	SqftBasement *float64
	SqftMU       *float64
	Bed          *int64
	Bath         *int64

	Layout        *string
	Pool          *string
	Parking       *string
	BasementYesNo *string
	Water         *string
	Sewage        *string
	HTW           *string
	Commercial    *string
	Highway       *string
	Train         *string
	Flood         *string
	Occupancy     *string

	NetYield *float64
	IRR      *float64
	Taxes    *float64
	TaxRate  *float64

	Market             *string
	Source             *string
	NeighborhoodRating *int64
	SchoolAverage      *float64
	Subdivision        *string

	ReviewedStatus       *string
	MostRecentStatus     *string
	SellingReason        *string
	FinalReviewer        *string
	SellerRetainedBroker *string
	RentRestricted       *string
}

// ValuationRow references its parent by PropertyID; ValuationIndex is the
// row's 1-based position within that parent's valuation list.
type ValuationRow struct {
	PropertyID     int64
	ValuationIndex int64

	ListPrice     *float64
	PreviousRent  *float64
	ARV           *float64
	RentZestimate *float64
	LowFMR        *float64
	HighFMR       *float64
	Zestimate     *float64
	ExpectedRent  *float64
	RedfinValue   *float64
}

type HOAFeeRow struct {
	PropertyID int64
	HOAIndex   int64

	Amount *float64
	Flag   *string
}

type RehabRow struct {
	PropertyID int64
	RehabIndex int64

	UnderwritingRehab *float64
	RehabCalculation  *float64
	Paint             *string

	FlooringFlag    *string
	FoundationFlag  *string
	RoofFlag        *string
	HVACFlag        *string
	KitchenFlag     *string
	BathroomFlag    *string
	AppliancesFlag  *string
	WindowsFlag     *string
	LandscapingFlag *string
	TrashoutFlag    *string
}

// FactRowSet holds the four flattened row lists handed to storage.
type FactRowSet struct {
	Properties       []PropertyRow
	Valuations       []ValuationRow
	HOAFees          []HOAFeeRow
	RehabAssessments []RehabRow
}

// Denormalize flattens properties into fact rows in a single input-order
// pass. Parent rows are always emitted before their children, so no child
// row can reference a property id that does not exist. A property with no
// children of a kind contributes no rows to that set.
func Denormalize(properties []schema.Property) FactRowSet {
	var facts FactRowSet
	facts.Properties = make([]PropertyRow, 0, len(properties))

	for _, p := range properties {
		row := propertyRow(p)
		row.PropertyID = int64(len(facts.Properties) + 1)
		facts.Properties = append(facts.Properties, row)
		propertyID := row.PropertyID

		for i, v := range p.Valuations {
			facts.Valuations = append(facts.Valuations, ValuationRow{
				PropertyID:     propertyID,
				ValuationIndex: int64(i + 1),
				ListPrice:      v.ListPrice,
				PreviousRent:   v.PreviousRent,
				ARV:            v.ARV,
				RentZestimate:  v.RentZestimate,
				LowFMR:         v.LowFMR,
				HighFMR:        v.HighFMR,
				Zestimate:      v.Zestimate,
				ExpectedRent:   v.ExpectedRent,
				RedfinValue:    v.RedfinValue,
			})
		}

		for i, h := range p.HOA {
			facts.HOAFees = append(facts.HOAFees, HOAFeeRow{
				PropertyID: propertyID,
				HOAIndex:   int64(i + 1),
				Amount:     h.Amount,
				Flag:       h.Flag,
			})
		}

		for i, r := range p.Rehab {
			facts.RehabAssessments = append(facts.RehabAssessments, RehabRow{
				PropertyID:        propertyID,
				RehabIndex:        int64(i + 1),
				UnderwritingRehab: r.UnderwritingRehab,
				RehabCalculation:  r.RehabCalculation,
				Paint:             r.Paint,
				FlooringFlag:      r.FlooringFlag,
				FoundationFlag:    r.FoundationFlag,
				RoofFlag:          r.RoofFlag,
				HVACFlag:          r.HVACFlag,
				KitchenFlag:       r.KitchenFlag,
				BathroomFlag:      r.BathroomFlag,
				AppliancesFlag:    r.AppliancesFlag,
				WindowsFlag:       r.WindowsFlag,
				LandscapingFlag:   r.LandscapingFlag,
				TrashoutFlag:      r.TrashoutFlag,
			})
		}
	}

	return facts
}

// propertyRow passes validated values through unchanged; no re-coercion
// happens at this stage.
func propertyRow(p schema.Property) PropertyRow {
	return PropertyRow{
		PropertyTitle:        p.PropertyTitle,
		Address:              p.Address,
		StreetAddress:        p.StreetAddress,
		City:                 p.City,
		State:                p.State,
		ZipCode:              p.ZipCode,
		Latitude:             p.Latitude,
		Longitude:            p.Longitude,
		PropertyType:         p.PropertyType,
		YearBuilt:            p.YearBuilt,
		SqftTotal:            p.SqftTotal,
		SqftBasement:         p.SqftBasement,
		SqftMU:               p.SqftMU,
		Bed:                  p.Bed,
		Bath:                 p.Bath,
		Layout:               p.Layout,
		Pool:                 p.Pool,
		Parking:              p.Parking,
		BasementYesNo:        p.BasementYesNo,
		Water:                p.Water,
		Sewage:               p.Sewage,
		HTW:                  p.HTW,
		Commercial:           p.Commercial,
		Highway:              p.Highway,
		Train:                p.Train,
		Flood:                p.Flood,
		Occupancy:            p.Occupancy,
		NetYield:             p.NetYield,
		IRR:                  p.IRR,
		Taxes:                p.Taxes,
		TaxRate:              p.TaxRate,
		Market:               p.Market,
		Source:               p.Source,
		NeighborhoodRating:   p.NeighborhoodRating,
		SchoolAverage:        p.SchoolAverage,
		Subdivision:          p.Subdivision,
		ReviewedStatus:       p.ReviewedStatus,
		MostRecentStatus:     p.MostRecentStatus,
		SellingReason:        p.SellingReason,
		FinalReviewer:        p.FinalReviewer,
		SellerRetainedBroker: p.SellerRetainedBroker,
		RentRestricted:       p.RentRestricted,
	}
}
