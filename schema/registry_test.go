package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
)

func TestLoadCanonicalDialect(t *testing.T) {
	s, err := Load("flights")
	require.Nil(t, err)
	require.Equal(t, "flights", s.Dialect())
	require.True(t, s.HasColumn("iata_dep"))
	require.True(t, s.HasColumn("iata_arr"))

	keys := s.MergeKeyColumns()
	names := make([]string, len(keys))
	for i, col := range keys {
		names[i] = col.Name
	}
	// declared order defines key-tuple equality, so it must be stable
	require.Equal(t, []string{"date", "iata_dep", "time_dep", "iata_arr"}, names)

	dateCol, ok := s.MergeDateColumn()
	require.True(t, ok)
	require.Equal(t, "date", dateCol.Name)
}

func TestLoadCachesDialects(t *testing.T) {
	first, err := Load("flights")
	require.Nil(t, err)
	second, err := Load("flights")
	require.Nil(t, err)
	require.Equal(t, first, second)
}

func TestLoadUnknownDialect(t *testing.T) {
	_, err := Load("nosuch")
	require.NotNil(t, err)
	require.IsType(t, errors.SchemaError{}, err)
}

func TestLoadExportDialects(t *testing.T) {
	for _, dialect := range []string{"openflights", "myflightpath"} {
		s, err := Load(dialect)
		require.Nil(t, err)
		require.Empty(t, s.MergeKeyColumns())
		required := 0
		for _, col := range s.Columns() {
			if col.Required {
				required++
			}
		}
		require.Equal(t, 3, required)
	}
}

func TestLoadReferenceDialects(t *testing.T) {
	for _, dialect := range []string{"airports", "airlines", "aircraft"} {
		_, err := Load(dialect)
		require.Nil(t, err)
	}
}

func TestSideColumnLookup(t *testing.T) {
	s, err := Load("flights")
	require.Nil(t, err)
	lat, ok := s.SideColumn(flightlog.SideDeparture, "lat")
	require.True(t, ok)
	require.Equal(t, "lat_dep", lat.Name)
	lat, ok = s.SideColumn(flightlog.SideArrival, "lat")
	require.True(t, ok)
	require.Equal(t, "lat_arr", lat.Name)

	depCols := s.SideColumns(flightlog.SideDeparture)
	arrCols := s.SideColumns(flightlog.SideArrival)
	require.Equal(t, len(depCols), len(arrCols))
}

func TestParseUnknownColumnType(t *testing.T) {
	_, err := Parse("bad", []byte(`
dialect: bad
columns:
  - name: a
    type: varchar
`))
	require.NotNil(t, err)
	require.IsType(t, errors.SchemaError{}, err)
}

func TestParseUnpairedSide(t *testing.T) {
	_, err := Parse("bad", []byte(`
dialect: bad
columns:
  - name: lat_dep
    type: float
    side: dep
    provenance: lat
`))
	require.NotNil(t, err)
	require.IsType(t, errors.SchemaError{}, err)
}

func TestParseSideWithoutProvenance(t *testing.T) {
	_, err := Parse("bad", []byte(`
dialect: bad
columns:
  - name: lat_dep
    type: float
    side: dep
`))
	require.NotNil(t, err)
}

func TestParseMergeKeysNeedOneDateColumn(t *testing.T) {
	_, err := Parse("bad", []byte(`
dialect: bad
columns:
  - name: flight
    type: string
    merge_key: true
`))
	require.NotNil(t, err)

	_, err = Parse("bad", []byte(`
dialect: bad
columns:
  - name: d1
    type: date
    merge_key: true
  - name: d2
    type: date
    merge_key: true
`))
	require.NotNil(t, err)
}

func TestParseDuplicateColumn(t *testing.T) {
	_, err := Parse("bad", []byte(`
dialect: bad
columns:
  - name: a
    type: string
  - name: a
    type: string
`))
	require.NotNil(t, err)
}

func TestColumnsReturnsCopies(t *testing.T) {
	s, err := Load("flights")
	require.Nil(t, err)
	cols := s.Columns()
	cols[0].Name = "mutated"
	fresh := s.Columns()
	require.NotEqual(t, "mutated", fresh[0].Name)
}
