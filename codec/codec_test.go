package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/errors"
	"github.com/flightlog/flightlog/schema"
)

func testSchema(t *testing.T) flightlog.Schema {
	s, err := schema.Load("flights")
	require.Nil(t, err)
	return s
}

func emptyFields(s flightlog.Schema) []string {
	return make([]string, s.NumColumns())
}

func setField(s flightlog.Schema, fields []string, name, value string) {
	for i, col := range s.Columns() {
		if col.Name == name {
			fields[i] = value
			return
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	s := testSchema(t)
	fields := emptyFields(s)
	setField(s, fields, "flight_index", "1")
	setField(s, fields, "date", "2023-06-15")
	setField(s, fields, "iata_dep", "LHR")
	setField(s, fields, "iata_arr", "JFK")
	setField(s, fields, "time_dep", "2023-06-15 09:00")
	setField(s, fields, "time_arr", "2023-06-15 12:05")
	setField(s, fields, "lat_dep", "51.4706")
	setField(s, fields, "lon_dep", "-0.461941")
	setField(s, fields, "dist", "5540")
	setField(s, fields, "duration", "8:05")

	row, err := Decode(fields, s)
	require.Nil(t, err)

	encoded, err := Encode(row)
	require.Nil(t, err)
	require.Equal(t, fields, encoded)

	again, err := Decode(encoded, s)
	require.Nil(t, err)
	reencoded, err := Encode(again)
	require.Nil(t, err)
	require.Equal(t, encoded, reencoded)
}

func TestDecodeEmptyFieldIsAbsent(t *testing.T) {
	s := testSchema(t)
	row, err := Decode(emptyFields(s), s)
	require.Nil(t, err)
	require.True(t, row.IsAbsent("dist"))
	require.True(t, row.IsAbsent("airline"))
}

func TestDecodeMergeKeyStringsNeverAbsent(t *testing.T) {
	s := testSchema(t)
	row, err := Decode(emptyFields(s), s)
	require.Nil(t, err)
	// merge-key strings default to empty string so key tuples stay comparable
	require.False(t, row.IsAbsent("iata_dep"))
	v, err := row.GetString("iata_dep")
	require.Nil(t, err)
	require.Equal(t, "", v)
	// the date merge key is not a string and stays absent
	require.True(t, row.IsAbsent("date"))
}

func TestDecodeNamesColumnAndRawText(t *testing.T) {
	s := testSchema(t)
	fields := emptyFields(s)
	setField(s, fields, "dist", "far away")
	_, err := Decode(fields, s)
	require.NotNil(t, err)
	decodeErr, ok := err.(errors.DecodeError)
	require.True(t, ok)
	require.Equal(t, "dist", decodeErr.Column)
	require.Equal(t, "far away", decodeErr.Raw)
}

func TestDecodeWrongWidth(t *testing.T) {
	s := testSchema(t)
	_, err := Decode([]string{"too", "short"}, s)
	require.NotNil(t, err)
	require.IsType(t, errors.DecodeError{}, err)
}

func TestDecodeNegativeDuration(t *testing.T) {
	s := testSchema(t)
	fields := emptyFields(s)
	setField(s, fields, "duration", "-2:30")
	_, err := Decode(fields, s)
	require.NotNil(t, err)
	require.IsType(t, errors.DecodeError{}, err)
}

func TestReadWriteDataset(t *testing.T) {
	s := testSchema(t)
	ds := dataset.CreateDataset(s)
	row := dataset.CreateRow(s)
	require.Nil(t, row.SetTime("date", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)))
	require.Nil(t, row.SetString("iata_dep", "LHR"))
	require.Nil(t, row.SetString("iata_arr", "JFK"))
	require.Nil(t, row.SetTime("time_dep", time.Date(2023, 6, 15, 9, 0, 0, 0, time.UTC)))
	require.Nil(t, row.SetFloat("dist", 5540))
	require.Nil(t, ds.Append(row))

	var out strings.Builder
	require.Nil(t, WriteDataset(&out, ds))
	text := out.String()
	require.True(t, strings.HasPrefix(text, strings.Join(s.ColumnNames(), ",")))
	require.True(t, strings.Contains(text, "\r\n"))

	back, err := ReadDataset(strings.NewReader(text), s, &ReaderConf{HeaderLines: 1})
	require.Nil(t, err)
	require.Equal(t, 1, back.NumRows())
	got, err := back.Row(0).GetFloat("dist")
	require.Nil(t, err)
	require.Equal(t, 5540.0, got)
	iata, err := back.Row(0).GetString("iata_dep")
	require.Nil(t, err)
	require.Equal(t, "LHR", iata)
}

func TestReadDatasetReportsEveryBadRow(t *testing.T) {
	s, err := schema.Parse("mini", []byte(`
dialect: mini
columns:
  - name: day
    type: date
    merge_key: true
  - name: code
    type: string
    merge_key: true
  - name: n
    type: integer
`))
	require.Nil(t, err)
	csv := "day,code,n\r\n" +
		"2023-06-15,AAA,1\r\n" +
		"2023-06-16,BBB,oops\r\n" +
		"not-a-date,CCC,3\r\n"
	_, err = ReadDataset(strings.NewReader(csv), s, &ReaderConf{HeaderLines: 1})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "row 1")
	require.Contains(t, err.Error(), "row 2")
}

func TestReadDatasetNilValueToken(t *testing.T) {
	s, err := schema.Parse("mini2", []byte(`
dialect: mini2
columns:
  - name: day
    type: date
    merge_key: true
  - name: code
    type: string
    merge_key: true
  - name: n
    type: integer
`))
	require.Nil(t, err)
	csv := "2023-06-15,AAA,\\N\r\n"
	ds, err := ReadDataset(strings.NewReader(csv), s, &ReaderConf{NilValue: `\N`})
	require.Nil(t, err)
	require.Equal(t, 1, ds.NumRows())
	require.True(t, ds.Row(0).IsAbsent("n"))
}

func TestReadDatasetEmptyFile(t *testing.T) {
	s := testSchema(t)
	ds, err := ReadDataset(strings.NewReader(""), s, &ReaderConf{HeaderLines: 1})
	require.Nil(t, err)
	require.Equal(t, 0, ds.NumRows())
}
