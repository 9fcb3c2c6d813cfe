// Package dataset provides the in-memory representation of a flight-history
// dataset: an ordered sequence of typed rows sharing one schema, plus a
// derived index from merge-key tuple to row position. Datasets are mutated
// only by fully-completed stage outputs, one stage at a time.
package dataset

import (
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	uuid "github.com/gofrs/uuid"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
)

// keySeparator joins merge-key fields into a single tuple string. A unit
// separator cannot appear in CSV field data, so joined tuples are unambiguous.
const keySeparator = "\x1f"

// Dataset is an ordered sequence of typed rows sharing one schema. The
// merge-key index is rebuilt whenever rows are inserted or replaced.
type Dataset struct {
	id     string
	schema flightlog.Schema
	rows   []flightlog.Row
	// index buckets row positions by key-tuple hash; the full tuple is
	// re-compared on lookup so hash collisions are harmless
	index map[uint64][]int
}

// CreateDataset returns a new, empty Dataset for the given schema
func CreateDataset(schema flightlog.Schema) *Dataset {
	id, err := uuid.NewV4()
	if err != nil {
		// NewV4 only fails when the system entropy source does
		id = uuid.Nil
	}
	return &Dataset{
		id:     id.String(),
		schema: schema,
		index:  make(map[uint64][]int),
	}
}

// ID returns an identifier for this Dataset, used to correlate log lines
// across pipeline stages
func (d *Dataset) ID() string {
	return d.id
}

// Schema returns the schema shared by every row in this Dataset
func (d *Dataset) Schema() flightlog.Schema {
	return d.schema
}

// NumRows returns the number of rows in this Dataset
func (d *Dataset) NumRows() int {
	return len(d.rows)
}

// Row returns the row at the given position
func (d *Dataset) Row(i int) flightlog.Row {
	return d.rows[i]
}

// Rows returns the rows of this Dataset in order. The returned slice is
// shared; callers iterate but do not reslice it.
func (d *Dataset) Rows() []flightlog.Row {
	return d.rows
}

// Append adds a row to the end of this Dataset and indexes its merge key
func (d *Dataset) Append(row flightlog.Row) error {
	key, err := d.KeyTuple(row)
	if err != nil {
		return err
	}
	d.rows = append(d.rows, row)
	h := xxhash.Sum64String(key)
	d.index[h] = append(d.index[h], len(d.rows)-1)
	return nil
}

// Replace swaps the row at the given position for another, keeping its
// position, and reindexes
func (d *Dataset) Replace(i int, row flightlog.Row) error {
	if _, err := d.KeyTuple(row); err != nil {
		return err
	}
	d.rows[i] = row
	d.rebuildIndex()
	return nil
}

// KeyTuple computes the merge-key tuple for a row: the canonical text of
// every merge-key column in declared order. Absent values render as the
// empty string so key tuples stay comparable.
func (d *Dataset) KeyTuple(row flightlog.Row) (string, error) {
	keys := d.schema.MergeKeyColumns()
	parts := make([]string, len(keys))
	for i, col := range keys {
		if row.IsAbsent(col.Name) {
			parts[i] = ""
			continue
		}
		v, err := row.Get(col.Name)
		if err != nil {
			return "", err
		}
		text, err := col.Type.Format(v)
		if err != nil {
			return "", errors.EncodeError{Column: col.Name, Message: err.Error()}
		}
		parts[i] = text
	}
	return strings.Join(parts, keySeparator), nil
}

// FindKey returns the position of the row whose merge-key tuple matches, if
// one exists
func (d *Dataset) FindKey(key string) (int, bool) {
	h := xxhash.Sum64String(key)
	for _, pos := range d.index[h] {
		candidate, err := d.KeyTuple(d.rows[pos])
		if err != nil {
			continue
		}
		if candidate == key {
			return pos, true
		}
	}
	return 0, false
}

func (d *Dataset) rebuildIndex() {
	d.index = make(map[uint64][]int, len(d.rows))
	for i, row := range d.rows {
		key, err := d.KeyTuple(row)
		if err != nil {
			continue
		}
		h := xxhash.Sum64String(key)
		d.index[h] = append(d.index[h], i)
	}
}
