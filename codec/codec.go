// Package codec converts between canonical in-memory typed rows and textual
// CSV fields, driven entirely by the per-column type tags of a declared
// schema. Decoding and encoding are exact inverses for representable values,
// so repeated merge/export cycles never drift.
package codec

import (
	"time"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/errors"
)

// Decode parses one record of raw fields into a typed row, according to a
// schema. An empty field decodes to absent, except for merge-key string
// columns, which decode to the empty string so key tuples stay comparable.
func Decode(fields []string, schema flightlog.Schema) (flightlog.Row, error) {
	return decode(fields, schema, -1, "")
}

func decode(fields []string, schema flightlog.Schema, rowIdx int, nilValue string) (flightlog.Row, error) {
	if len(fields) != schema.NumColumns() {
		return nil, errors.DecodeError{
			Row:     rowIdx,
			Column:  "",
			Raw:     "",
			Message: "record width does not match schema",
		}
	}
	row := dataset.CreateRow(schema)
	for i, col := range schema.Columns() {
		raw := fields[i]
		if raw == "" || (nilValue != "" && raw == nilValue) {
			if col.MergeKey {
				if _, ok := col.Type.(*flightlog.StringColumnType); ok {
					if err := row.SetString(col.Name, ""); err != nil {
						return nil, err
					}
					continue
				}
			}
			// absent, not the zero value
			continue
		}
		v, err := col.Type.Parse(raw)
		if err != nil {
			return nil, errors.DecodeError{Row: rowIdx, Column: col.Name, Raw: raw, Message: err.Error()}
		}
		if err := setValue(row, col, v); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func setValue(row flightlog.Row, col flightlog.Column, v interface{}) error {
	switch value := v.(type) {
	case string:
		return row.SetString(col.Name, value)
	case int64:
		return row.SetInt(col.Name, value)
	case float64:
		return row.SetFloat(col.Name, value)
	case bool:
		return row.SetBool(col.Name, value)
	case time.Time:
		return row.SetTime(col.Name, value)
	case time.Duration:
		return row.SetDuration(col.Name, value)
	default:
		return errors.DecodeError{Row: -1, Column: col.Name, Message: "unsupported value type"}
	}
}

// Encode renders a typed row as one record of raw fields in schema column
// order. Absent values render as empty fields.
func Encode(row flightlog.Row) ([]string, error) {
	schema := row.Schema()
	fields := make([]string, schema.NumColumns())
	err := schema.ForEachColumn(func(idx int, col flightlog.Column) error {
		if row.IsAbsent(col.Name) {
			fields[idx] = ""
			return nil
		}
		v, err := row.Get(col.Name)
		if err != nil {
			return err
		}
		text, err := col.Type.Format(v)
		if err != nil {
			return errors.EncodeError{Column: col.Name, Message: err.Error()}
		}
		fields[idx] = text
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}
