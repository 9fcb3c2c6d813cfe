package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
	"github.com/flightlog/flightlog/schema"
)

func testSchema(t *testing.T) flightlog.Schema {
	s, err := schema.Load("flights")
	require.Nil(t, err)
	return s
}

func TestRowAbsentVersusZero(t *testing.T) {
	row := CreateRow(testSchema(t))
	require.True(t, row.IsAbsent("dist"))

	require.Nil(t, row.SetFloat("dist", 0))
	require.False(t, row.IsAbsent("dist"))
	v, err := row.GetFloat("dist")
	require.Nil(t, err)
	require.Equal(t, 0.0, v)

	require.Nil(t, row.SetAbsent("dist"))
	require.True(t, row.IsAbsent("dist"))
	_, err = row.GetFloat("dist")
	require.IsType(t, errors.NilValueError{}, err)
}

func TestRowTypedAccess(t *testing.T) {
	row := CreateRow(testSchema(t))

	require.Nil(t, row.SetString("iata_dep", "LHR"))
	s, err := row.GetString("iata_dep")
	require.Nil(t, err)
	require.Equal(t, "LHR", s)

	d := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	require.Nil(t, row.SetTime("date", d))
	got, err := row.GetTime("date")
	require.Nil(t, err)
	require.True(t, d.Equal(got))

	require.Nil(t, row.SetDuration("duration", 90*time.Minute))
	dur, err := row.GetDuration("duration")
	require.Nil(t, err)
	require.Equal(t, 90*time.Minute, dur)
}

func TestRowRejectsWrongType(t *testing.T) {
	row := CreateRow(testSchema(t))
	err := row.SetString("dist", "far")
	require.IsType(t, errors.IncompatibleTypeError{}, err)
	err = row.SetFloat("iata_dep", 1.0)
	require.IsType(t, errors.IncompatibleTypeError{}, err)
	err = row.SetTime("iata_dep", time.Now())
	require.IsType(t, errors.IncompatibleTypeError{}, err)
}

func TestRowUnknownColumn(t *testing.T) {
	row := CreateRow(testSchema(t))
	require.True(t, row.IsAbsent("nonexistent"))
	err := row.SetString("nonexistent", "x")
	require.IsType(t, errors.UnknownColumnError{}, err)
}

func TestRowClone(t *testing.T) {
	row := CreateRow(testSchema(t))
	require.Nil(t, row.SetString("iata_dep", "LHR"))
	clone := row.Clone()
	require.Nil(t, clone.SetString("iata_dep", "JFK"))
	orig, err := row.GetString("iata_dep")
	require.Nil(t, err)
	require.Equal(t, "LHR", orig)
}

func testRow(t *testing.T, s flightlog.Schema, date string, dep, arr string) flightlog.Row {
	row := CreateRow(s)
	d, err := time.Parse(flightlog.DateFormat, date)
	require.Nil(t, err)
	require.Nil(t, row.SetTime("date", d))
	require.Nil(t, row.SetString("iata_dep", dep))
	require.Nil(t, row.SetString("iata_arr", arr))
	require.Nil(t, row.SetTime("time_dep", d.Add(9*time.Hour)))
	return row
}

func TestKeyTupleUsesDeclaredOrder(t *testing.T) {
	s := testSchema(t)
	ds := CreateDataset(s)
	row := testRow(t, s, "2023-06-15", "LHR", "JFK")
	key, err := ds.KeyTuple(row)
	require.Nil(t, err)
	require.Equal(t, "2023-06-15\x1fLHR\x1f2023-06-15 09:00\x1fJFK", key)
}

func TestKeyTupleAbsentRendersEmpty(t *testing.T) {
	s := testSchema(t)
	ds := CreateDataset(s)
	row := CreateRow(s)
	key, err := ds.KeyTuple(row)
	require.Nil(t, err)
	require.Equal(t, "\x1f\x1f\x1f", key)
}

func TestFindKey(t *testing.T) {
	s := testSchema(t)
	ds := CreateDataset(s)
	first := testRow(t, s, "2023-06-15", "LHR", "JFK")
	second := testRow(t, s, "2023-07-01", "JFK", "LHR")
	require.Nil(t, ds.Append(first))
	require.Nil(t, ds.Append(second))
	require.Equal(t, 2, ds.NumRows())

	key, err := ds.KeyTuple(second)
	require.Nil(t, err)
	pos, ok := ds.FindKey(key)
	require.True(t, ok)
	require.Equal(t, 1, pos)

	_, ok = ds.FindKey("no\x1fsuch\x1fkey\x1f")
	require.False(t, ok)
}

func TestReplaceKeepsPosition(t *testing.T) {
	s := testSchema(t)
	ds := CreateDataset(s)
	require.Nil(t, ds.Append(testRow(t, s, "2023-06-15", "LHR", "JFK")))
	require.Nil(t, ds.Append(testRow(t, s, "2023-07-01", "JFK", "LHR")))

	replacement := testRow(t, s, "2023-06-15", "LHR", "JFK")
	require.Nil(t, replacement.SetString("airline", "BA"))
	require.Nil(t, ds.Replace(0, replacement))

	got, err := ds.Row(0).GetString("airline")
	require.Nil(t, err)
	require.Equal(t, "BA", got)
	require.Equal(t, 2, ds.NumRows())

	key, err := ds.KeyTuple(replacement)
	require.Nil(t, err)
	pos, ok := ds.FindKey(key)
	require.True(t, ok)
	require.Equal(t, 0, pos)
}

func TestDatasetIDs(t *testing.T) {
	s := testSchema(t)
	require.NotEqual(t, CreateDataset(s).ID(), CreateDataset(s).ID())
}
