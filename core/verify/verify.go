// Package verify decodes a freshly encoded transport file and cross-checks
// it against the dataset it came from.
//
// Verification mirrors the non-blocking validation policy: mismatches
// produce warnings, never errors, and a conversion counts as delivered even
// with a warning attached.
package verify

import (
	"fmt"
	"math"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/schema"
	"github.com/sendstack/sendxpt/core/xpt"
)

// numTolerance is the relative tolerance for numeric comparisons; the IBM
// encoding carries at least 53 significand bits, so agreement should be far
// tighter in practice.
const numTolerance = 1e-9

// Result is the outcome of a round-trip check.
type Result struct {
	OK             bool     `json:"ok"`
	DecodedRecords int      `json:"decoded_records"`
	Warnings       []string `json:"warnings,omitempty"`
}

func (r *Result) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// RoundTrip decodes encoded transport bytes and compares record count,
// variable set, and sample values against the source dataset.
func RoundTrip(encoded []byte, d *dataset.Dataset) Result {
	res := Result{}

	f, err := xpt.DecodeBytes(encoded)
	if err != nil {
		res.warn("encoded file failed to decode: %v", err)
		return res
	}
	res.DecodedRecords = len(f.Observations)

	if f.Member != d.Schema.Domain {
		res.warn("member name %q does not match domain %q", f.Member, d.Schema.Domain)
	}
	if len(f.Variables) != len(d.Schema.Variables) {
		res.warn("decoded %d variables, dataset has %d", len(f.Variables), len(d.Schema.Variables))
	} else {
		for i, v := range d.Schema.Variables {
			if f.Variables[i].Name != v.Name {
				res.warn("variable %d decoded as %q, want %q", i+1, f.Variables[i].Name, v.Name)
			}
		}
	}

	switch {
	case res.DecodedRecords == 0 && d.Len() > 0:
		res.warn("encoded file decoded to zero records")
	case res.DecodedRecords != d.Len():
		res.warn("decoded %d records, dataset has %d", res.DecodedRecords, d.Len())
	}

	// Sample comparison: first and last record, every variable.
	if res.DecodedRecords > 0 && res.DecodedRecords == d.Len() && len(res.Warnings) == 0 {
		compareRecord(&res, f, d, 0)
		if d.Len() > 1 {
			compareRecord(&res, f, d, d.Len()-1)
		}
	}

	res.OK = len(res.Warnings) == 0
	return res
}

func compareRecord(res *Result, f *xpt.File, d *dataset.Dataset, ri int) {
	for vi, spec := range d.Schema.Variables {
		got := f.Observations[ri].Values[vi]
		want := d.Records[ri].Values[vi]
		switch spec.Kind {
		case schema.Character:
			if got.Str != want.Chr {
				res.warn("record %d variable %s decoded as %q, want %q",
					ri+1, spec.Name, got.Str, want.Chr)
			}
		case schema.Numeric:
			if !closeEnough(got.Num, want.Num) {
				res.warn("record %d variable %s decoded as %v, want %v",
					ri+1, spec.Name, got.Num, want.Num)
			}
		}
	}
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= numTolerance*scale
}
