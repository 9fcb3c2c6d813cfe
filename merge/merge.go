// Package merge upserts batches of newly parsed rows into an existing
// dataset, keyed by the schema's declared composite merge key, with optional
// date-range replace-window semantics. A matching key means the incoming row
// wins entirely; there is no field-level reconciliation.
package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/errors"
	"github.com/flightlog/flightlog/logging"
)

// Window bounds a date-range replacement: every existing row whose
// merge-date falls within [After, Before], inclusive, is removed before
// incoming rows are applied. A nil bound is unbounded on that side.
type Window struct {
	After  *time.Time
	Before *time.Time
}

func (w *Window) contains(d time.Time) bool {
	if w.After != nil && d.Before(*w.After) {
		return false
	}
	if w.Before != nil && d.After(*w.Before) {
		return false
	}
	return true
}

// EngineConf configures a merge Engine
type EngineConf struct {
	Logger *logging.Logger
}

// Engine merges incoming row batches into existing datasets
type Engine struct {
	logger *logging.Logger
}

// CreateEngine returns a new merge Engine
func CreateEngine(conf *EngineConf) *Engine {
	if conf == nil {
		conf = &EngineConf{}
	}
	logger := conf.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{logger: logger}
}

// Merge returns a new Dataset combining existing rows with an incoming
// batch. Existing rows retain their relative order and replaced rows keep
// their position; appended rows are ordered by the merge-date column, then
// by incoming order for ties. The existing Dataset is never modified, so a
// failed merge leaves the caller's data untouched.
func (e *Engine) Merge(existing *dataset.Dataset, incoming []flightlog.Row, window *Window) (*dataset.Dataset, error) {
	schema := existing.Schema()
	dateCol, hasDate := schema.MergeDateColumn()
	if len(schema.MergeKeyColumns()) == 0 {
		return nil, errors.MergeError{Message: fmt.Sprintf("dialect %q declares no merge keys", schema.Dialect())}
	}
	if window != nil && window.After != nil && window.Before != nil && window.After.After(*window.Before) {
		return nil, errors.MergeError{Message: fmt.Sprintf(
			"window after %s falls past before %s",
			window.After.Format(flightlog.DateFormat),
			window.Before.Format(flightlog.DateFormat))}
	}

	// Reject ambiguous batches before touching anything: two incoming rows
	// with the same key would make the outcome depend on batch order.
	keys := make([]string, len(incoming))
	seen := make(map[string]int, len(incoming))
	for i, row := range incoming {
		key, err := existing.KeyTuple(row)
		if err != nil {
			return nil, errors.MergeError{Message: fmt.Sprintf("incoming row %d: %v", i, err)}
		}
		if first, dup := seen[key]; dup {
			return nil, errors.DuplicateKeyError{Key: key, First: first, Second: i}
		}
		seen[key] = i
		keys[i] = key
	}

	// Survivors: existing rows outside the replace window, in original order
	result := dataset.CreateDataset(schema)
	removed := 0
	for _, row := range existing.Rows() {
		if window != nil && hasDate && !row.IsAbsent(dateCol.Name) {
			d, err := row.GetTime(dateCol.Name)
			if err == nil && window.contains(d) {
				removed++
				continue
			}
		}
		if err := result.Append(row.Clone()); err != nil {
			return nil, errors.MergeError{Message: err.Error()}
		}
	}
	if window != nil {
		e.logger.Infof("dataset %s: removed %d rows inside replace window", existing.ID(), removed)
	}

	// Apply the batch: replace in place on a key match, otherwise collect
	// for appending
	type pending struct {
		row  flightlog.Row
		pos  int // original batch position, for stable tie ordering
		date time.Time
		hasD bool
	}
	var appends []pending
	replaced := 0
	for i, row := range incoming {
		if pos, ok := result.FindKey(keys[i]); ok {
			if err := result.Replace(pos, row.Clone()); err != nil {
				return nil, errors.MergeError{Message: err.Error()}
			}
			replaced++
			continue
		}
		p := pending{row: row.Clone(), pos: i}
		if hasDate && !row.IsAbsent(dateCol.Name) {
			if d, err := row.GetTime(dateCol.Name); err == nil {
				p.date = d
				p.hasD = true
			}
		}
		appends = append(appends, p)
	}
	sort.SliceStable(appends, func(a, b int) bool {
		pa, pb := appends[a], appends[b]
		if pa.hasD != pb.hasD {
			return pa.hasD // dated rows sort ahead of undated ones
		}
		if pa.hasD && !pa.date.Equal(pb.date) {
			return pa.date.Before(pb.date)
		}
		return pa.pos < pb.pos
	})
	for _, p := range appends {
		if err := result.Append(p.row); err != nil {
			return nil, errors.MergeError{Message: err.Error()}
		}
	}

	e.logger.Infof("dataset %s: merged %d incoming rows into %s (%d replaced, %d appended)",
		existing.ID(), len(incoming), result.ID(), replaced, len(appends))
	return result, nil
}
