package flightlog

import "time"

// Row is a single typed record conforming to a Schema. Each column holds
// either a typed value or is absent; absent is distinct from the zero value
// of the column's type. A Row is owned by exactly one component at a time -
// the codec hands rows to the merge engine, which hands the merged dataset
// to the resolver, and so on - so implementations need no locking.
type Row interface {
	Schema() Schema                                       // Schema returns the schema this row conforms to
	IsAbsent(colName string) bool                         // IsAbsent returns true iff the given column holds no value. An unknown column reads as absent.
	SetAbsent(colName string) error                       // SetAbsent clears the given column's value
	Get(colName string) (interface{}, error)              // Get returns the value of any column as an interface{}, if present
	GetString(colName string) (string, error)             // GetString retrieves a string value from the column with the given name
	GetTime(colName string) (time.Time, error)            // GetTime retrieves a date or datetime value from the column with the given name
	GetDuration(colName string) (time.Duration, error)    // GetDuration retrieves a timedelta value from the column with the given name
	GetInt(colName string) (int64, error)                 // GetInt retrieves an integer value from the column with the given name
	GetFloat(colName string) (float64, error)             // GetFloat retrieves a float value from the column with the given name
	GetBool(colName string) (bool, error)                 // GetBool retrieves a boolean value from the column with the given name
	SetString(colName string, value string) error         // SetString stores a string value in the column with the given name
	SetTime(colName string, value time.Time) error        // SetTime stores a date or datetime value in the column with the given name
	SetDuration(colName string, value time.Duration) error // SetDuration stores a timedelta value in the column with the given name
	SetInt(colName string, value int64) error             // SetInt stores an integer value in the column with the given name
	SetFloat(colName string, value float64) error         // SetFloat stores a float value in the column with the given name
	SetBool(colName string, value bool) error             // SetBool stores a boolean value in the column with the given name
	Clone() Row                                           // Clone returns a deep copy of this row
	ToString() string                                     // ToString returns a string representation of this row
}
