package errors

import (
	"fmt"
	"time"
)

// SchemaError occurs when a dialect declaration is malformed: an unknown
// column type, a side without a paired counterpart, or a missing merge key.
// Schema errors are fatal and are raised before any dataset I/O.
type SchemaError struct {
	Dialect string
	Message string
}

// Error returns a textual representation of this SchemaError
func (e SchemaError) Error() string {
	return fmt.Sprintf("schema %q is invalid: %s", e.Dialect, e.Message)
}

// DecodeError occurs when a row field cannot be parsed as its column's
// declared type. Row is the zero-based position within the batch being
// decoded, or -1 when no row context applies.
type DecodeError struct {
	Row     int
	Column  string
	Raw     string
	Message string
}

// Error returns a textual representation of this DecodeError
func (e DecodeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("cannot decode column %q from %q: %s", e.Column, e.Raw, e.Message)
	}
	return fmt.Sprintf("row %d: cannot decode column %q from %q: %s", e.Row, e.Column, e.Raw, e.Message)
}

// EncodeError occurs when a stored value cannot be rendered in its column
// type's canonical text form
type EncodeError struct {
	Column  string
	Message string
}

// Error returns a textual representation of this EncodeError
func (e EncodeError) Error() string {
	return fmt.Sprintf("cannot encode column %q: %s", e.Column, e.Message)
}

// MergeError occurs when a merge operation cannot proceed, e.g. a window
// whose after bound falls past its before bound. The target dataset is left
// unmodified.
type MergeError struct {
	Message string
}

// Error returns a textual representation of this MergeError
func (e MergeError) Error() string {
	return fmt.Sprintf("merge failed: %s", e.Message)
}

// DuplicateKeyError occurs when two rows within one incoming batch share the
// same merge-key tuple. Both offending batch positions are named so neither
// row is silently lost.
type DuplicateKeyError struct {
	Key    string
	First  int
	Second int
}

// Error returns a textual representation of this DuplicateKeyError
func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("incoming rows %d and %d share merge key %q", e.First, e.Second, e.Key)
}

// ResolutionError occurs when a timezone lookup fails for one coordinate
// pair. Resolution errors are isolated to the affected rows and do not abort
// the batch.
type ResolutionError struct {
	Lat     float64
	Lon     float64
	Message string
}

// Error returns a textual representation of this ResolutionError
func (e ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve timezone for (%.4f, %.4f): %s", e.Lat, e.Lon, e.Message)
}

// QuotaError occurs when the timezone service reports that the account's
// request quota is exhausted. This is a recoverable condition - the limit is
// hourly and external to the process - so callers stop issuing lookups and
// report how many rows remain unresolved rather than failing the run.
type QuotaError struct {
	Message string
}

// Error returns a textual representation of this QuotaError
func (e QuotaError) Error() string {
	return fmt.Sprintf("timezone service quota exceeded: %s", e.Message)
}

// AuthError occurs when the timezone service rejects the configured account
type AuthError struct {
	Message string
}

// Error returns a textual representation of this AuthError
func (e AuthError) Error() string {
	return fmt.Sprintf("timezone service rejected credentials: %s", e.Message)
}

// NotFoundError occurs when no timezone covers a coordinate pair
type NotFoundError struct {
	Lat float64
	Lon float64
}

// Error returns a textual representation of this NotFoundError
func (e NotFoundError) Error() string {
	return fmt.Sprintf("no timezone found for (%.4f, %.4f)", e.Lat, e.Lon)
}

// BadDateError occurs when the timezone service cannot interpret the query
// date. The affected rows are left unresolved.
type BadDateError struct {
	Date time.Time
}

// Error returns a textual representation of this BadDateError
func (e BadDateError) Error() string {
	return fmt.Sprintf("timezone service rejected date %s", e.Date.Format("2006-01-02"))
}

// ExportError occurs when a row cannot be exported because a column the
// target dialect marks required resolves to no value. The row is excluded
// from output and reported; the batch continues.
type ExportError struct {
	Row    int
	Column string
}

// Error returns a textual representation of this ExportError
func (e ExportError) Error() string {
	return fmt.Sprintf("row %d has no value for required column %q", e.Row, e.Column)
}

// NilValueError occurs when a typed getter is called on an absent column
// value
type NilValueError struct {
	Name string
}

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("value for column %s is absent", e.Name)
}

// UnknownColumnError occurs when a column name is not declared by a schema
type UnknownColumnError struct {
	Name string
}

// Error returns a textual representation of this UnknownColumnError
func (e UnknownColumnError) Error() string {
	return fmt.Sprintf("column %s does not exist", e.Name)
}

// IncompatibleTypeError occurs when a typed getter or setter does not match
// the column's declared type
type IncompatibleTypeError struct {
	Name     string
	Expected string
}

// Error returns a textual representation of this IncompatibleTypeError
func (e IncompatibleTypeError) Error() string {
	return fmt.Sprintf("column %s does not hold a %s value", e.Name, e.Expected)
}
