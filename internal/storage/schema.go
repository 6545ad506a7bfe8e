package storage

import "strings"

// ColType is a dialect-neutral column type; backends map it to native SQL.
type ColType int

const (
	TypeBigInt ColType = iota
	TypeDouble
	TypeText
)

// ColumnSpec describes one column of a managed table.
type ColumnSpec struct {
	Name       string
	Type       ColType
	PrimaryKey bool
	Unique     bool
}

// TableSpec describes one managed table.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// ColumnNames returns the column names in declaration order.
func (t TableSpec) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Fact table names. One table per entity type of the denormalized output.
const (
	TableProperties = "properties"
	TableValuations = "valuations"
	TableHOAFees    = "hoa_fees"
	TableRehab      = "rehab_assessments"
)

// Dimension table names. Each holds the distinct values of one categorical
// field of the properties table.
const (
	TableDimMarkets       = "dim_markets"
	TableDimSources       = "dim_sources"
	TableDimPropertyTypes = "dim_property_types"
	TableDimLayouts       = "dim_layouts"
)

// FactTables returns the fact table definitions in load order. Parents come
// before children so foreign keys resolve when backends enforce them.
func FactTables() []TableSpec {
	return []TableSpec{
		{Name: TableProperties, Columns: []ColumnSpec{
			{Name: "property_id", Type: TypeBigInt, PrimaryKey: true},
			{Name: "property_title", Type: TypeText},
			{Name: "address", Type: TypeText},
			{Name: "street_address", Type: TypeText},
			{Name: "city", Type: TypeText},
			{Name: "state", Type: TypeText},
			{Name: "zip_code", Type: TypeText},
			{Name: "latitude", Type: TypeDouble},
			{Name: "longitude", Type: TypeDouble},
			{Name: "property_type", Type: TypeText},
			{Name: "year_built", Type: TypeBigInt},
			{Name: "sqft_total", Type: TypeDouble},
			{Name: "sqft_basement", Type: TypeDouble},
			{Name: "sqft_mu", Type: TypeDouble},
			{Name: "bed", Type: TypeBigInt},
			{Name: "bath", Type: TypeBigInt},
			{Name: "layout", Type: TypeText},
			{Name: "pool", Type: TypeText},
			{Name: "parking", Type: TypeText},
			{Name: "basement_yes_no", Type: TypeText},
			{Name: "water", Type: TypeText},
			{Name: "sewage", Type: TypeText},
			{Name: "htw", Type: TypeText},
			{Name: "commercial", Type: TypeText},
			{Name: "highway", Type: TypeText},
			{Name: "train", Type: TypeText},
			{Name: "flood", Type: TypeText},
			{Name: "occupancy", Type: TypeText},
			{Name: "net_yield", Type: TypeDouble},
			{Name: "irr", Type: TypeDouble},
			{Name: "taxes", Type: TypeDouble},
			{Name: "tax_rate", Type: TypeDouble},
			{Name: "market", Type: TypeText},
			{Name: "source", Type: TypeText},
			{Name: "neighborhood_rating", Type: TypeBigInt},
			{Name: "school_average", Type: TypeDouble},
			{Name: "subdivision", Type: TypeText},
			{Name: "reviewed_status", Type: TypeText},
			{Name: "most_recent_status", Type: TypeText},
			{Name: "selling_reason", Type: TypeText},
			{Name: "final_reviewer", Type: TypeText},
			{Name: "seller_retained_broker", Type: TypeText},
			{Name: "rent_restricted", Type: TypeText},
		}},
		{Name: TableValuations, Columns: []ColumnSpec{
			{Name: "property_id", Type: TypeBigInt},
			{Name: "valuation_index", Type: TypeBigInt},
			{Name: "list_price", Type: TypeDouble},
			{Name: "previous_rent", Type: TypeDouble},
			{Name: "arv", Type: TypeDouble},
			{Name: "rent_zestimate", Type: TypeDouble},
			{Name: "low_fmr", Type: TypeDouble},
			{Name: "high_fmr", Type: TypeDouble},
			{Name: "zestimate", Type: TypeDouble},
			{Name: "expected_rent", Type: TypeDouble},
			{Name: "redfin_value", Type: TypeDouble},
		}},
		{Name: TableHOAFees, Columns: []ColumnSpec{
			{Name: "property_id", Type: TypeBigInt},
			{Name: "hoa_index", Type: TypeBigInt},
			{Name: "hoa_amount", Type: TypeDouble},
			{Name: "hoa_flag", Type: TypeText},
		}},
		{Name: TableRehab, Columns: []ColumnSpec{
			{Name: "property_id", Type: TypeBigInt},
			{Name: "rehab_index", Type: TypeBigInt},
			{Name: "underwriting_rehab", Type: TypeDouble},
			{Name: "rehab_calculation", Type: TypeDouble},
			{Name: "paint", Type: TypeText},
			{Name: "flooring_flag", Type: TypeText},
			{Name: "foundation_flag", Type: TypeText},
			{Name: "roof_flag", Type: TypeText},
			{Name: "hvac_flag", Type: TypeText},
			{Name: "kitchen_flag", Type: TypeText},
			{Name: "bathroom_flag", Type: TypeText},
			{Name: "appliances_flag", Type: TypeText},
			{Name: "windows_flag", Type: TypeText},
			{Name: "landscaping_flag", Type: TypeText},
			{Name: "trashout_flag", Type: TypeText},
		}},
	}
}

// DimensionTables returns the dimension table definitions. Each table has a
// single unique value column.
func DimensionTables() []TableSpec {
	return []TableSpec{
		{Name: TableDimMarkets, Columns: []ColumnSpec{{Name: "market", Type: TypeText, Unique: true}}},
		{Name: TableDimSources, Columns: []ColumnSpec{{Name: "source", Type: TypeText, Unique: true}}},
		{Name: TableDimPropertyTypes, Columns: []ColumnSpec{{Name: "property_type", Type: TypeText, Unique: true}}},
		{Name: TableDimLayouts, Columns: []ColumnSpec{{Name: "layout", Type: TypeText, Unique: true}}},
	}
}

// CreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for t using
// the backend's identifier quoting and type mapping. Backends whose dialect
// lacks IF NOT EXISTS (mssql) build their own wrapper instead.
func CreateTableSQL(t TableSpec, quote func(string) string, typeFor func(ColumnSpec) string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quote(t.Name))
	b.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(c.Name))
		b.WriteByte(' ')
		b.WriteString(typeFor(c))
		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if c.Unique {
			b.WriteString(" UNIQUE")
		}
	}
	b.WriteString(")")
	return b.String()
}
