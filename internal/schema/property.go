// Package schema coerces generic parsed records into strictly typed property
// records. Coercion is lossy where the data warrants it (unit suffixes,
// unknown flag values, empty strings) and failing where it does not (missing
// required fields, structurally wrong values). Failures are values, isolated
// per record; one bad record never blocks the rest of a batch.
package schema

// Property is the main entity. Required fields are plain values; optional
// fields are pointers where nil means absent/unknown.
type Property struct {
	// Identifiers.
	PropertyTitle string
	Address       string

	// Location.
	StreetAddress string
	City          string
	State         string
	ZipCode       string
	Latitude      float64
	Longitude     float64

	// Characteristics.
	PropertyType string
	YearBuilt    *int64
	SqftTotal    *float64
	SqftBasement *float64
	SqftMU       *float64
	Bed          *int64
	Bath         *int64

	// Features.
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

	// Financials.
	NetYield *float64
	IRR      *float64
	Taxes    *float64
	TaxRate  *float64

	// Market metadata.
	Market             *string
	Source             *string
	NeighborhoodRating *int64
	SchoolAverage      *float64
	Subdivision        *string

	// Status / review.
	ReviewedStatus       *string
	MostRecentStatus     *string
	SellingReason        *string
	FinalReviewer        *string
	SellerRetainedBroker *string
	RentRestricted       *string

	// Nested collections; lifetime bound to the parent record.
	Valuations []ValuationRecord
	HOA        []HOARecord
	Rehab      []RehabRecord
}

// ValuationRecord is a point-in-time valuation snapshot.
type ValuationRecord struct {
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

// HOARecord holds the association fee and its tri-state flag.
type HOARecord struct {
	Amount *float64
	Flag   *string
}

// RehabRecord holds rehab cost estimates, the free-text paint note and the
// tri-state condition flags.
type RehabRecord struct {
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
