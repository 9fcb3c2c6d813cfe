// Package schema loads and validates the declarative column dialects which
// drive every other component: the canonical flight store, the export
// dialects, and the reference-data tables. A dialect is declared once as
// data, loaded at process start, and read-only for the lifetime of the run;
// component logic never hard-codes column lists.
package schema

import (
	"embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
)

//go:embed dialects/*.yaml
var dialectFS embed.FS

// loaded dialects are cached for the lifetime of the process; the pipeline
// is single-threaded so a plain map suffices
var registry = map[string]flightlog.Schema{}

type columnDecl struct {
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	MergeKey   bool              `yaml:"merge_key"`
	Side       string            `yaml:"side"`
	Provenance string            `yaml:"provenance"`
	TZLookup   bool              `yaml:"tz_lookup"`
	Required   bool              `yaml:"required"`
	Format     string            `yaml:"format"`
	Values     map[string]string `yaml:"values"`
}

type dialectDecl struct {
	Dialect string       `yaml:"dialect"`
	Columns []columnDecl `yaml:"columns"`
}

// Load returns the built-in dialect with the given name, loading and
// validating it on first use
func Load(dialect string) (flightlog.Schema, error) {
	if s, ok := registry[dialect]; ok {
		return s, nil
	}
	data, err := dialectFS.ReadFile("dialects/" + dialect + ".yaml")
	if err != nil {
		return nil, errors.SchemaError{Dialect: dialect, Message: "no such dialect"}
	}
	s, err := Parse(dialect, data)
	if err != nil {
		return nil, err
	}
	registry[dialect] = s
	return s, nil
}

// LoadFile loads and validates a dialect declaration from a file on disk,
// for user-supplied dialects that are not built in
func LoadFile(path string) (flightlog.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SchemaError{Dialect: path, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse builds a Schema from a YAML dialect declaration, failing with a
// SchemaError if the declaration is malformed or violates a structural
// invariant
func Parse(name string, data []byte) (flightlog.Schema, error) {
	var decl dialectDecl
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, errors.SchemaError{Dialect: name, Message: err.Error()}
	}
	if decl.Dialect != "" {
		name = decl.Dialect
	}
	if len(decl.Columns) == 0 {
		return nil, errors.SchemaError{Dialect: name, Message: "no columns declared"}
	}
	s := &schema{dialect: name, byName: make(map[string]int, len(decl.Columns))}
	for i, cd := range decl.Columns {
		if cd.Name == "" {
			return nil, errors.SchemaError{Dialect: name, Message: "column with empty name"}
		}
		if _, dup := s.byName[cd.Name]; dup {
			return nil, errors.SchemaError{Dialect: name, Message: "duplicate column " + cd.Name}
		}
		colType, err := flightlog.ColumnTypeFor(cd.Type)
		if err != nil {
			return nil, errors.SchemaError{Dialect: name, Message: err.Error()}
		}
		s.columns = append(s.columns, flightlog.Column{
			Name:       cd.Name,
			Type:       colType,
			Index:      i,
			MergeKey:   cd.MergeKey,
			Side:       flightlog.Side(cd.Side),
			Provenance: cd.Provenance,
			TZLookup:   cd.TZLookup,
			Required:   cd.Required,
			Format:     cd.Format,
			Values:     cd.Values,
		})
		s.byName[cd.Name] = i
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}
