package flightlog

// Schema is an ordered set of column definitions for one dataset dialect.
// Schemas are loaded once by the schema registry and are read-only
// thereafter; no component may mutate them.
type Schema interface {
	Dialect() string                                    // Dialect returns the name this Schema was loaded under
	NumColumns() int                                    // NumColumns returns the number of declared columns
	Columns() []Column                                  // Columns returns all columns in declared order
	Column(name string) (Column, error)                 // Column returns the column with the given name, if it exists
	HasColumn(name string) bool                         // HasColumn returns true iff a column with the given name is declared
	ColumnNames() []string                              // ColumnNames returns all column names in declared order
	MergeKeyColumns() []Column                          // MergeKeyColumns returns the merge-key columns in declared order
	MergeDateColumn() (Column, bool)                    // MergeDateColumn returns the date-typed merge column used for window replacement
	SideColumns(side Side) []Column                     // SideColumns returns all columns tagged with the given side, in declared order
	SideColumn(side Side, role string) (Column, bool)   // SideColumn returns the column with the given side and provenance role
	ForEachColumn(fn func(idx int, col Column) error) error // ForEachColumn runs a function against every column in declared order
}
