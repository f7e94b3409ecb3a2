// Package dataset holds the in-memory typed table a conversion works on.
//
// A Dataset is constructed once by the loader, rewritten in place by the
// normalizer, and read-only afterwards: the validator, encoder, and
// verifier never mutate it.
package dataset

import (
	"fmt"

	"github.com/sendstack/sendxpt/core/schema"
)

// Value is one typed cell. Exactly one of Chr/Num carries the payload,
// selected by Kind. Raw preserves the token as loaded for diagnostics.
type Value struct {
	Kind      schema.Kind
	Chr       string
	Num       float64
	Raw       string
	Missing   bool // numeric cell had no token
	Malformed bool // numeric token failed to parse
}

// Record is one row of values in schema variable order. Positional storage
// guarantees every record carries exactly its schema's variable set.
type Record struct {
	Values []Value
}

// Dataset is an ordered sequence of records conforming to one schema.
type Dataset struct {
	Domain  string
	Schema  *schema.DatasetSchema
	Records []Record
}

// New creates an empty dataset for a schema.
func New(s *schema.DatasetSchema) *Dataset {
	return &Dataset{Domain: s.Domain, Schema: s}
}

// NewRecord creates a record with zero values of the right kinds for a schema.
func NewRecord(s *schema.DatasetSchema) Record {
	values := make([]Value, len(s.Variables))
	for i, v := range s.Variables {
		values[i] = Value{Kind: v.Kind}
	}
	return Record{Values: values}
}

// Append adds a record. The record must match the schema's variable count.
func (d *Dataset) Append(r Record) error {
	if len(r.Values) != len(d.Schema.Variables) {
		return fmt.Errorf("record has %d values, schema %s defines %d variables",
			len(r.Values), d.Schema.Domain, len(d.Schema.Variables))
	}
	d.Records = append(d.Records, r)
	return nil
}

// Len returns the record count.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Chr returns the character value of a named variable in record i.
func (d *Dataset) Chr(i int, name string) string {
	idx := d.Schema.Index(name)
	if idx < 0 {
		return ""
	}
	return d.Records[i].Values[idx].Chr
}

// Num returns the numeric value of a named variable in record i.
func (d *Dataset) Num(i int, name string) float64 {
	idx := d.Schema.Index(name)
	if idx < 0 {
		return 0
	}
	return d.Records[i].Values[idx].Num
}

// SetChr sets the character value of a named variable in record i.
func (d *Dataset) SetChr(i int, name, value string) {
	idx := d.Schema.Index(name)
	if idx < 0 {
		return
	}
	d.Records[i].Values[idx].Chr = value
}
