// Package validate checks domain integrity rules over a normalized dataset
// and aggregates violations into a report.
//
// Validation never halts a conversion: the report is surfaced to the
// caller, and writing the encoded file proceeds regardless of validity.
package validate

import (
	"fmt"
	"sort"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/schema"
)

// Report is the outcome of validating one dataset. Violations are ordered
// by check, then by variable.
type Report struct {
	Domain     string   `json:"domain"`
	Records    int      `json:"records"`
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// Check runs every integrity rule over the dataset and accumulates all
// detected violations; no rule short-circuits the rest.
func Check(d *dataset.Dataset) Report {
	r := Report{Domain: d.Schema.Domain, Records: d.Len()}

	checkRequired(d, &r)
	checkDomain(d, &r)
	checkSequence(d, &r)

	r.Valid = len(r.Violations) == 0
	return r
}

func (r *Report) violate(format string, args ...interface{}) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// checkRequired verifies every policy-required variable the schema defines
// is non-null in every record. One violation is emitted per variable.
func checkRequired(d *dataset.Dataset, r *Report) {
	for _, name := range d.Schema.Required() {
		idx := d.Schema.Index(name)
		spec := d.Schema.Variables[idx]
		bad := 0
		first := -1
		for ri := range d.Records {
			v := d.Records[ri].Values[idx]
			null := false
			switch spec.Kind {
			case schema.Character:
				null = v.Chr == ""
			case schema.Numeric:
				null = v.Missing || v.Malformed
			}
			if null {
				bad++
				if first < 0 {
					first = ri
				}
			}
		}
		if bad > 0 {
			r.violate("required variable %s is null in %d record(s), first at record %d",
				name, bad, first+1)
		}
	}
}

// checkDomain verifies every record carries the schema's domain code.
func checkDomain(d *dataset.Dataset, r *Report) {
	idx := d.Schema.Index(schema.DomainVariable)
	if idx < 0 {
		return
	}
	bad := 0
	for ri := range d.Records {
		if d.Records[ri].Values[idx].Chr != d.Schema.Domain {
			bad++
		}
	}
	if bad > 0 {
		r.violate("%s must be %q for all records, %d record(s) differ",
			schema.DomainVariable, d.Schema.Domain, bad)
	}
}

// checkSequence verifies the sequence variable has no duplicates and that
// its sorted values are exactly 1..N.
func checkSequence(d *dataset.Dataset, r *Report) {
	name := d.Schema.SequenceVariable()
	idx := d.Schema.Index(name)
	if idx < 0 || d.Len() == 0 {
		return
	}

	values := make([]float64, d.Len())
	seen := make(map[float64]bool, d.Len())
	duplicates := false
	for ri := range d.Records {
		v := d.Records[ri].Values[idx].Num
		values[ri] = v
		if seen[v] {
			duplicates = true
		}
		seen[v] = true
	}
	if duplicates {
		r.violate("%s values must be unique", name)
	}

	sort.Float64s(values)
	for i, v := range values {
		if v != float64(i+1) {
			r.violate("%s must be consecutive integers starting at 1", name)
			return
		}
	}
}
