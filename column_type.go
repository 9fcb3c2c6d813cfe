package flightlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateFormat is the textual layout for date columns
	DateFormat = "2006-01-02"
	// DatetimeFormat is the textual layout for datetime columns
	DatetimeFormat = "2006-01-02 15:04"
)

// ColumnType defines how a declared column parses and formats its values.
// Parse and Format are exact inverses for every representable value, which is
// what makes repeated merge/export cycles stable.
type ColumnType interface {
	TypeName() string                        // returns the name this type is declared under in a schema
	Parse(raw string) (interface{}, error)   // converts canonical text to a typed value
	Format(v interface{}) (string, error)    // converts a typed value to canonical text
}

// ColumnTypeFor returns the ColumnType declared under the given name, or an
// error if the name is unknown.
func ColumnTypeFor(name string) (ColumnType, error) {
	switch name {
	case "string":
		return &StringColumnType{}, nil
	case "date":
		return &DateColumnType{}, nil
	case "datetime":
		return &DatetimeColumnType{}, nil
	case "timedelta":
		return &TimedeltaColumnType{}, nil
	case "integer":
		return &IntColumnType{}, nil
	case "float":
		return &FloatColumnType{}, nil
	case "boolean":
		return &BoolColumnType{}, nil
	default:
		return nil, fmt.Errorf("unknown column type %q", name)
	}
}

// StringColumnType is a column type which stores text verbatim
type StringColumnType struct{}

// TypeName returns the schema name of a StringColumnType
func (t *StringColumnType) TypeName() string { return "string" }

// Parse returns the raw text unchanged
func (t *StringColumnType) Parse(raw string) (interface{}, error) {
	return raw, nil
}

// Format returns the stored text unchanged
func (t *StringColumnType) Format(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("value %#v is not a string", v)
	}
	return s, nil
}

// DateColumnType is a column type which stores a calendar date
type DateColumnType struct{}

// TypeName returns the schema name of a DateColumnType
func (t *DateColumnType) TypeName() string { return "date" }

// Parse parses text in the fixed date layout
func (t *DateColumnType) Parse(raw string) (interface{}, error) {
	v, err := time.Parse(DateFormat, raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Format renders a date in the fixed date layout
func (t *DateColumnType) Format(v interface{}) (string, error) {
	d, ok := v.(time.Time)
	if !ok {
		return "", fmt.Errorf("value %#v is not a time", v)
	}
	return d.Format(DateFormat), nil
}

// DatetimeColumnType is a column type which stores a naive local timestamp.
// Values are parsed without a location; offsets are applied downstream once
// timezones are resolved.
type DatetimeColumnType struct{}

// TypeName returns the schema name of a DatetimeColumnType
func (t *DatetimeColumnType) TypeName() string { return "datetime" }

// Parse parses text in the fixed datetime layout
func (t *DatetimeColumnType) Parse(raw string) (interface{}, error) {
	v, err := time.Parse(DatetimeFormat, raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Format renders a timestamp in the fixed datetime layout
func (t *DatetimeColumnType) Format(v interface{}) (string, error) {
	d, ok := v.(time.Time)
	if !ok {
		return "", fmt.Errorf("value %#v is not a time", v)
	}
	return d.Format(DatetimeFormat), nil
}

// TimedeltaColumnType is a column type which stores an elapsed duration,
// rendered as hours:minutes. Flight durations are never negative, so a
// leading sign is a parse error.
type TimedeltaColumnType struct{}

// TypeName returns the schema name of a TimedeltaColumnType
func (t *TimedeltaColumnType) TypeName() string { return "timedelta" }

// Parse parses hours:minutes text into a time.Duration
func (t *TimedeltaColumnType) Parse(raw string) (interface{}, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("duration %q is not in hours:minutes form", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("duration %q has a non-numeric hour part", raw)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("duration %q has a non-numeric minute part", raw)
	}
	if hours < 0 || strings.HasPrefix(strings.TrimSpace(parts[0]), "-") || mins < 0 {
		return nil, fmt.Errorf("duration %q is negative", raw)
	}
	if mins > 59 {
		return nil, fmt.Errorf("duration %q has more than 59 minutes", raw)
	}
	return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute, nil
}

// Format renders a duration as hours:minutes
func (t *TimedeltaColumnType) Format(v interface{}) (string, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return "", fmt.Errorf("value %#v is not a duration", v)
	}
	if d < 0 {
		return "", fmt.Errorf("duration %v is negative", d)
	}
	mins := int64(d / time.Minute)
	return fmt.Sprintf("%d:%02d", mins/60, mins%60), nil
}

// IntColumnType is a column type which stores a signed integer
type IntColumnType struct{}

// TypeName returns the schema name of an IntColumnType
func (t *IntColumnType) TypeName() string { return "integer" }

// Parse parses decimal integer text
func (t *IntColumnType) Parse(raw string) (interface{}, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	return v, nil
}

// Format renders an integer in decimal
func (t *IntColumnType) Format(v interface{}) (string, error) {
	i, ok := v.(int64)
	if !ok {
		return "", fmt.Errorf("value %#v is not an int64", v)
	}
	return strconv.FormatInt(i, 10), nil
}

// FloatColumnType is a column type which stores a floating-point number
type FloatColumnType struct{}

// TypeName returns the schema name of a FloatColumnType
func (t *FloatColumnType) TypeName() string { return "float" }

// Parse parses floating-point text
func (t *FloatColumnType) Parse(raw string) (interface{}, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}

// Format renders a float with the minimal digits that round-trip
func (t *FloatColumnType) Format(v interface{}) (string, error) {
	f, ok := v.(float64)
	if !ok {
		return "", fmt.Errorf("value %#v is not a float64", v)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// BoolColumnType is a column type which stores a boolean. A fixed token set
// is accepted on parse; anything else is an error.
type BoolColumnType struct{}

// TypeName returns the schema name of a BoolColumnType
func (t *BoolColumnType) TypeName() string { return "boolean" }

// Parse parses one of true/false/yes/no/1/0, case-insensitively
func (t *BoolColumnType) Parse(raw string) (interface{}, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return nil, fmt.Errorf("%q is not a boolean token", raw)
	}
}

// Format renders a boolean as true or false
func (t *BoolColumnType) Format(v interface{}) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("value %#v is not a bool", v)
	}
	if b {
		return "true", nil
	}
	return "false", nil
}
