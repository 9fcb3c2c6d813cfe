package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
)

// row stores one typed value per schema column. A nil entry means the value
// is absent, which is distinct from the type's zero value.
type row struct {
	schema flightlog.Schema
	values []interface{}
}

// CreateRow returns a new Row conforming to the given schema, with every
// column absent
func CreateRow(schema flightlog.Schema) flightlog.Row {
	return &row{schema: schema, values: make([]interface{}, schema.NumColumns())}
}

// Schema returns the schema this row conforms to
func (r *row) Schema() flightlog.Schema {
	return r.schema
}

// IsAbsent returns true iff the given column holds no value. An unknown
// column reads as absent.
func (r *row) IsAbsent(colName string) bool {
	col, err := r.schema.Column(colName)
	if err != nil {
		return true
	}
	return r.values[col.Index] == nil
}

// SetAbsent clears the given column's value
func (r *row) SetAbsent(colName string) error {
	col, err := r.schema.Column(colName)
	if err != nil {
		return err
	}
	r.values[col.Index] = nil
	return nil
}

// Get returns the value of any column as an interface{}, if present
func (r *row) Get(colName string) (interface{}, error) {
	col, err := r.schema.Column(colName)
	if err != nil {
		return nil, err
	}
	v := r.values[col.Index]
	if v == nil {
		return nil, errors.NilValueError{Name: colName}
	}
	return v, nil
}

func (r *row) set(colName string, value interface{}, typeName string) error {
	col, err := r.schema.Column(colName)
	if err != nil {
		return err
	}
	if col.Type.TypeName() != typeName {
		return errors.IncompatibleTypeError{Name: colName, Expected: typeName}
	}
	r.values[col.Index] = value
	return nil
}

// GetString retrieves a string value from the column with the given name
func (r *row) GetString(colName string) (string, error) {
	v, err := r.Get(colName)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.IncompatibleTypeError{Name: colName, Expected: "string"}
	}
	return s, nil
}

// GetTime retrieves a date or datetime value from the column with the given name
func (r *row) GetTime(colName string) (time.Time, error) {
	v, err := r.Get(colName)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, errors.IncompatibleTypeError{Name: colName, Expected: "time"}
	}
	return t, nil
}

// GetDuration retrieves a timedelta value from the column with the given name
func (r *row) GetDuration(colName string) (time.Duration, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	d, ok := v.(time.Duration)
	if !ok {
		return 0, errors.IncompatibleTypeError{Name: colName, Expected: "duration"}
	}
	return d, nil
}

// GetInt retrieves an integer value from the column with the given name
func (r *row) GetInt(colName string) (int64, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, errors.IncompatibleTypeError{Name: colName, Expected: "integer"}
	}
	return i, nil
}

// GetFloat retrieves a float value from the column with the given name
func (r *row) GetFloat(colName string) (float64, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errors.IncompatibleTypeError{Name: colName, Expected: "float"}
	}
	return f, nil
}

// GetBool retrieves a boolean value from the column with the given name
func (r *row) GetBool(colName string) (bool, error) {
	v, err := r.Get(colName)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.IncompatibleTypeError{Name: colName, Expected: "boolean"}
	}
	return b, nil
}

// SetString stores a string value in the column with the given name
func (r *row) SetString(colName string, value string) error {
	return r.set(colName, value, "string")
}

// SetTime stores a date or datetime value in the column with the given name
func (r *row) SetTime(colName string, value time.Time) error {
	col, err := r.schema.Column(colName)
	if err != nil {
		return err
	}
	switch col.Type.(type) {
	case *flightlog.DateColumnType, *flightlog.DatetimeColumnType:
		r.values[col.Index] = value
		return nil
	default:
		return errors.IncompatibleTypeError{Name: colName, Expected: "time"}
	}
}

// SetDuration stores a timedelta value in the column with the given name
func (r *row) SetDuration(colName string, value time.Duration) error {
	return r.set(colName, value, "timedelta")
}

// SetInt stores an integer value in the column with the given name
func (r *row) SetInt(colName string, value int64) error {
	return r.set(colName, value, "integer")
}

// SetFloat stores a float value in the column with the given name
func (r *row) SetFloat(colName string, value float64) error {
	return r.set(colName, value, "float")
}

// SetBool stores a boolean value in the column with the given name
func (r *row) SetBool(colName string, value bool) error {
	return r.set(colName, value, "boolean")
}

// Clone returns a deep copy of this row
func (r *row) Clone() flightlog.Row {
	values := make([]interface{}, len(r.values))
	copy(values, r.values)
	return &row{schema: r.schema, values: values}
}

// ToString returns a string representation of this row
func (r *row) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	for i, col := range r.schema.Columns() {
		if i > 0 {
			fmt.Fprint(&res, ", ")
		}
		v := r.values[col.Index]
		if v == nil {
			fmt.Fprintf(&res, "%s: <absent>", col.Name)
			continue
		}
		text, err := col.Type.Format(v)
		if err != nil {
			text = fmt.Sprintf("%#v", v)
		}
		fmt.Fprintf(&res, "%s: %s", col.Name, text)
	}
	fmt.Fprint(&res, "}")
	return res.String()
}
