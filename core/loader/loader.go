// Package loader parses delimited text into a raw typed dataset conforming
// to a schema. Values come out untrimmed and unnormalized; the normalize
// package applies coercion and sanitization afterwards.
package loader

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/schema"
)

// ReadFile loads a CSV file into a dataset for the given schema.
func ReadFile(path string, s *schema.DatasetSchema) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	d, err := Read(f, s)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return d, nil
}

// Read loads CSV data into a dataset for the given schema. The header row
// names every schema variable; column order in the input is free. Columns
// the schema does not define are ignored with a warning. A schema variable
// absent from the header is fatal.
func Read(r io.Reader, s *schema.DatasetSchema) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewParse("CSV", "", "input is empty")
	}
	if err != nil {
		return nil, &errors.ParseError{Format: "CSV", Message: err.Error(), Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	// Map each schema variable to its input column.
	indexes := make([]int, len(s.Variables))
	var missing []string
	for i, v := range s.Variables {
		idx, ok := columns[v.Name]
		if !ok {
			missing = append(missing, v.Name)
			idx = -1
		}
		indexes[i] = idx
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingColumn(s.Domain, missing)
	}
	if extra := extraColumns(header, s); len(extra) > 0 {
		slog.Warn("ignoring columns not defined by schema",
			"domain", s.Domain, "columns", strings.Join(extra, ","))
	}

	d := dataset.New(s)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ParseError{Format: "CSV", Message: err.Error(), Err: err}
		}
		rec := dataset.NewRecord(s)
		for i, v := range s.Variables {
			token := row[indexes[i]]
			rec.Values[i] = parseValue(v, token)
		}
		if err := d.Append(rec); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// parseValue converts one raw token. Numeric parse failures are not fatal
// here: the cell is marked malformed and the normalizer's numeric policy
// decides what becomes of it.
func parseValue(v schema.VariableSpec, token string) dataset.Value {
	if v.Kind == schema.Character {
		return dataset.Value{Kind: v.Kind, Chr: token, Raw: token}
	}
	val := dataset.Value{Kind: v.Kind, Raw: token}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		val.Missing = true
		return val
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		val.Malformed = true
		return val
	}
	val.Num = n
	return val
}

func extraColumns(header []string, s *schema.DatasetSchema) []string {
	var extra []string
	for _, name := range header {
		name = strings.TrimSpace(name)
		if s.Index(name) < 0 {
			extra = append(extra, name)
		}
	}
	return extra
}
