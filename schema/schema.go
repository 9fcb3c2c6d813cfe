package schema

import (
	"fmt"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
)

// schema is the read-only flightlog.Schema produced by this registry
type schema struct {
	dialect string
	columns []flightlog.Column
	byName  map[string]int
}

// Dialect returns the name this schema was loaded under
func (s *schema) Dialect() string {
	return s.dialect
}

// NumColumns returns the number of declared columns
func (s *schema) NumColumns() int {
	return len(s.columns)
}

// Columns returns all columns in declared order
func (s *schema) Columns() []flightlog.Column {
	cols := make([]flightlog.Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// Column returns the column with the given name, if it exists
func (s *schema) Column(name string) (flightlog.Column, error) {
	idx, ok := s.byName[name]
	if !ok {
		return flightlog.Column{}, errors.UnknownColumnError{Name: name}
	}
	return s.columns[idx], nil
}

// HasColumn returns true iff a column with the given name is declared
func (s *schema) HasColumn(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ColumnNames returns all column names in declared order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// MergeKeyColumns returns the merge-key columns in declared order. Declared
// order defines key-tuple equality, so it must be stable across runs.
func (s *schema) MergeKeyColumns() []flightlog.Column {
	var keys []flightlog.Column
	for _, col := range s.columns {
		if col.MergeKey {
			keys = append(keys, col)
		}
	}
	return keys
}

// MergeDateColumn returns the date-typed merge column used for window
// replacement, if this dialect declares merge keys
func (s *schema) MergeDateColumn() (flightlog.Column, bool) {
	for _, col := range s.columns {
		if !col.MergeKey {
			continue
		}
		if _, ok := col.Type.(*flightlog.DateColumnType); ok {
			return col, true
		}
	}
	return flightlog.Column{}, false
}

// SideColumns returns all columns tagged with the given side, in declared order
func (s *schema) SideColumns(side flightlog.Side) []flightlog.Column {
	var cols []flightlog.Column
	for _, col := range s.columns {
		if col.Side == side {
			cols = append(cols, col)
		}
	}
	return cols
}

// SideColumn returns the column with the given side and provenance role
func (s *schema) SideColumn(side flightlog.Side, role string) (flightlog.Column, bool) {
	for _, col := range s.columns {
		if col.Side == side && col.Provenance == role {
			return col, true
		}
	}
	return flightlog.Column{}, false
}

// ForEachColumn runs a function against every column in declared order
func (s *schema) ForEachColumn(fn func(idx int, col flightlog.Column) error) error {
	for i, col := range s.columns {
		if err := fn(i, col); err != nil {
			return err
		}
	}
	return nil
}

// validate enforces the structural invariants a dialect must satisfy before
// any component may use it
func (s *schema) validate() error {
	fail := func(format string, args ...interface{}) error {
		return errors.SchemaError{Dialect: s.dialect, Message: fmt.Sprintf(format, args...)}
	}
	for _, col := range s.columns {
		switch col.Side {
		case flightlog.SideNone, flightlog.SideDeparture, flightlog.SideArrival:
		default:
			return fail("column %q declares unknown side %q", col.Name, col.Side)
		}
		if col.Side != flightlog.SideNone {
			if col.Provenance == "" {
				return fail("column %q declares a side but no provenance role", col.Name)
			}
			other := flightlog.SideDeparture
			if col.Side == flightlog.SideDeparture {
				other = flightlog.SideArrival
			}
			if _, ok := s.SideColumn(other, col.Provenance); !ok {
				return fail("column %q has no %s counterpart for role %q", col.Name, other, col.Provenance)
			}
		}
		if col.TZLookup {
			if _, ok := col.Type.(*flightlog.DateColumnType); !ok {
				return fail("column %q is tagged for timezone lookup but is not a date", col.Name)
			}
		}
	}
	if keys := s.MergeKeyColumns(); len(keys) > 0 {
		dates := 0
		for _, col := range keys {
			if _, ok := col.Type.(*flightlog.DateColumnType); ok {
				dates++
			}
		}
		if dates != 1 {
			return fail("merge keys must include exactly one date column, found %d", dates)
		}
	}
	return nil
}
