package codec

import (
	"encoding/csv"
	"io"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/errors"
)

// ReaderConf configures dataset reading
type ReaderConf struct {
	HeaderLines int    // The number of lines to ignore from the beginning of the file. The canonical dialect carries one header line.
	Delimiter   rune   // The delimiter separating columns. Defaults to ,
	Comment     rune   // Lines beginning with the comment character are ignored. Defaults to no comment character.
	NilValue    string // A special string which represents absent values, in addition to the empty field. Defaults to "" only.
}

// ReadDataset parses CSV data into a Dataset, according to a schema. Every
// malformed row is reported, with row and column context, as one aggregated
// error; on any decode error no dataset is returned, since silent row loss
// is worse than a stopped run.
func ReadDataset(r io.Reader, schema flightlog.Schema, conf *ReaderConf) (*dataset.Dataset, error) {
	if conf == nil {
		conf = &ReaderConf{HeaderLines: 1}
	}
	reader := csv.NewReader(r)
	if conf.Delimiter != 0 {
		reader.Comma = conf.Delimiter
	}
	reader.Comment = conf.Comment
	reader.FieldsPerRecord = schema.NumColumns()

	for i := 0; i < conf.HeaderLines; i++ {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return dataset.CreateDataset(schema), nil
			}
			return nil, err
		}
	}

	ds := dataset.CreateDataset(schema)
	var multierr *multierror.Error
	for rowIdx := 0; ; rowIdx++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			multierr = multierror.Append(multierr, errors.DecodeError{
				Row: rowIdx, Message: err.Error(),
			})
			continue
		}
		row, err := decode(fields, schema, rowIdx, conf.NilValue)
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		if err := ds.Append(row); err != nil {
			multierr = multierror.Append(multierr, err)
		}
	}
	if err := multierr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return ds, nil
}

// WriteDataset renders a Dataset as CSV in schema column order: UTF-8, one
// header row, comma separated, CRLF row terminator
func WriteDataset(w io.Writer, ds *dataset.Dataset) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write(ds.Schema().ColumnNames()); err != nil {
		return err
	}
	for _, row := range ds.Rows() {
		fields, err := Encode(row)
		if err != nil {
			return err
		}
		if err := writer.Write(fields); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
