// Package export maps canonical rows onto a target dialect's columns via
// each target column's declared provenance, applying per-column format
// overrides, enum remaps and required constraints. Rows missing a required
// value are excluded from output and reported; the rest of the batch still
// exports.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/errors"
	"github.com/flightlog/flightlog/logging"
)

// Exclusion reports one row dropped from an export and why
type Exclusion struct {
	Row int
	Err error
}

// Result is the outcome of one export: encoded rows in target column order,
// plus the rows that were excluded
type Result struct {
	Header   []string
	Rows     [][]string
	Excluded []Exclusion
}

// ExporterConf configures an Exporter
type ExporterConf struct {
	Logger *logging.Logger
}

// Exporter renders datasets in export dialects
type Exporter struct {
	logger *logging.Logger
}

// CreateExporter returns a new Exporter
func CreateExporter(conf *ExporterConf) *Exporter {
	if conf == nil {
		conf = &ExporterConf{}
	}
	logger := conf.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Exporter{logger: logger}
}

// Export maps every dataset row onto the target dialect. Rows lacking a
// value for a column the target marks required are excluded and reported,
// matching destination import rules, and do not fail the batch.
func (e *Exporter) Export(ds *dataset.Dataset, target flightlog.Schema) (*Result, error) {
	res := &Result{Header: target.ColumnNames()}
	for i, row := range ds.Rows() {
		fields, err := e.exportRow(row, target, i)
		if err != nil {
			if _, excluded := err.(errors.ExportError); excluded {
				res.Excluded = append(res.Excluded, Exclusion{Row: i, Err: err})
				continue
			}
			return nil, err
		}
		res.Rows = append(res.Rows, fields)
	}
	e.logger.Infof("dataset %s: exported %d rows as %s, %d excluded",
		ds.ID(), len(res.Rows), target.Dialect(), len(res.Excluded))
	return res, nil
}

func (e *Exporter) exportRow(row flightlog.Row, target flightlog.Schema, idx int) ([]string, error) {
	fields := make([]string, target.NumColumns())
	err := target.ForEachColumn(func(i int, col flightlog.Column) error {
		if col.Provenance == "" {
			fields[i] = ""
			return nil
		}
		if !row.Schema().HasColumn(col.Provenance) || row.IsAbsent(col.Provenance) {
			if col.Required {
				return errors.ExportError{Row: idx, Column: col.Name}
			}
			fields[i] = ""
			return nil
		}
		v, err := row.Get(col.Provenance)
		if err != nil {
			return err
		}
		text, err := formatValue(v, col)
		if err != nil {
			return errors.EncodeError{Column: col.Name, Message: err.Error()}
		}
		if col.Values != nil {
			if mapped, ok := col.Values[text]; ok {
				text = mapped
			}
		}
		fields[i] = text
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// formatValue converts a canonical typed value into the target column's
// text form, honouring a per-column layout override for temporal values
func formatValue(v interface{}, col flightlog.Column) (string, error) {
	if t, ok := v.(time.Time); ok && col.Format != "" {
		return t.Format(col.Format), nil
	}
	return col.Type.Format(v)
}

// Write renders an export result as CSV in the same dialect as the
// canonical store: UTF-8, header row, CRLF row terminator
func Write(w io.Writer, res *Result) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write(res.Header); err != nil {
		return err
	}
	for _, fields := range res.Rows {
		if err := writer.Write(fields); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
