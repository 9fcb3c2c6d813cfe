package flightlog

// Side tags a column as describing the departure or arrival airport of a
// flight. Paired columns (coordinates, codes, timezones) carry the same
// provenance role on opposite sides.
type Side string

const (
	// SideNone marks a column which does not belong to either airport
	SideNone Side = ""
	// SideDeparture marks a column describing the departure airport
	SideDeparture Side = "dep"
	// SideArrival marks a column describing the arrival airport
	SideArrival Side = "arr"
)

// Column is a single declared column within a Schema. Columns are value
// types; once a Schema is loaded they are never modified.
type Column struct {
	Name       string            // unique column name within the Schema
	Type       ColumnType        // value type for this column
	Index      int               // position of this column within the Schema
	MergeKey   bool              // whether this column is part of the composite merge key
	Side       Side              // departure/arrival grouping, if any
	Provenance string            // upstream field role (canonical dialects) or source column name (export dialects)
	TZLookup   bool              // whether this column supplies the date for timezone resolution
	Required   bool              // export dialects: rows lacking a value for this column are excluded
	Format     string            // export dialects: output layout override for date/datetime values
	Values     map[string]string // export dialects: remap of canonical values to dialect tokens
}
