package validate

import (
	"strings"
	"testing"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/schema"
)

func testSchema() *schema.DatasetSchema {
	return &schema.DatasetSchema{
		Domain: "TE",
		Variables: []schema.VariableSpec{
			{Name: "STUDYID", Kind: schema.Character, Length: 20},
			{Name: "DOMAIN", Kind: schema.Character, Length: 2},
			{Name: "USUBJID", Kind: schema.Character, Length: 15},
			{Name: "TESEQ", Kind: schema.Numeric, Length: 8},
		},
	}
}

// buildDataset creates one record per seq value, fully populated.
func buildDataset(t *testing.T, seqs ...float64) *dataset.Dataset {
	t.Helper()
	s := testSchema()
	d := dataset.New(s)
	for _, seq := range seqs {
		rec := dataset.NewRecord(s)
		rec.Values[s.Index("STUDYID")].Chr = "1121-2781"
		rec.Values[s.Index("DOMAIN")].Chr = "TE"
		rec.Values[s.Index("USUBJID")].Chr = "1121-2781-1001"
		rec.Values[s.Index("TESEQ")].Num = seq
		if err := d.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return d
}

// TestCheckPasses verifies a clean dataset yields a valid report.
func TestCheckPasses(t *testing.T) {
	r := Check(buildDataset(t, 1, 2, 3))
	if !r.Valid {
		t.Errorf("Valid = false, violations: %v", r.Violations)
	}
	if r.Domain != "TE" || r.Records != 3 {
		t.Errorf("Domain/Records = %q/%d, want TE/3", r.Domain, r.Records)
	}
}

// TestCheckNullRequired verifies exactly one violation per null required
// variable, regardless of how many records are affected.
func TestCheckNullRequired(t *testing.T) {
	d := buildDataset(t, 1, 2, 3)
	d.SetChr(0, "USUBJID", "")
	d.SetChr(2, "USUBJID", "")

	r := Check(d)
	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	var hits []string
	for _, v := range r.Violations {
		if strings.Contains(v, "USUBJID") {
			hits = append(hits, v)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("USUBJID violations = %d, want exactly 1: %v", len(hits), hits)
	}
	if !strings.Contains(hits[0], "2 record(s)") || !strings.Contains(hits[0], "record 1") {
		t.Errorf("violation = %q, want count 2 and first record 1", hits[0])
	}
}

// TestCheckMissingNumericRequired verifies a required numeric counts as null
// when missing or malformed.
func TestCheckMissingNumericRequired(t *testing.T) {
	d := buildDataset(t, 1, 2)
	idx := d.Schema.Index("TESEQ")
	d.Records[1].Values[idx].Missing = true

	r := Check(d)
	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	found := false
	for _, v := range r.Violations {
		if strings.Contains(v, "TESEQ is null") {
			found = true
		}
	}
	if !found {
		t.Errorf("no TESEQ null violation in %v", r.Violations)
	}
}

// TestCheckWrongDomain verifies records with a foreign domain code are counted.
func TestCheckWrongDomain(t *testing.T) {
	d := buildDataset(t, 1, 2)
	d.SetChr(1, "DOMAIN", "MI")

	r := Check(d)
	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	found := false
	for _, v := range r.Violations {
		if strings.Contains(v, `DOMAIN must be "TE"`) && strings.Contains(v, "1 record(s) differ") {
			found = true
		}
	}
	if !found {
		t.Errorf("no domain violation in %v", r.Violations)
	}
}

// TestCheckDuplicateSequence verifies duplicate sequence numbers are reported.
func TestCheckDuplicateSequence(t *testing.T) {
	r := Check(buildDataset(t, 1, 2, 2))
	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	var dup, consec bool
	for _, v := range r.Violations {
		if strings.Contains(v, "must be unique") {
			dup = true
		}
		if strings.Contains(v, "consecutive") {
			consec = true
		}
	}
	if !dup {
		t.Errorf("no uniqueness violation in %v", r.Violations)
	}
	if !consec {
		t.Errorf("no consecutiveness violation in %v", r.Violations)
	}
}

// TestCheckSequenceGap verifies a gap in the sequence is reported even when
// all values are unique.
func TestCheckSequenceGap(t *testing.T) {
	r := Check(buildDataset(t, 1, 2, 4))
	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	found := false
	for _, v := range r.Violations {
		if strings.Contains(v, "consecutive integers starting at 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("no consecutiveness violation in %v", r.Violations)
	}
}

// TestCheckSequenceOrderFree verifies sequence values need not arrive sorted.
func TestCheckSequenceOrderFree(t *testing.T) {
	r := Check(buildDataset(t, 3, 1, 2))
	if !r.Valid {
		t.Errorf("Valid = false, violations: %v", r.Violations)
	}
}

// TestCheckEmptyDataset verifies zero records validate cleanly.
func TestCheckEmptyDataset(t *testing.T) {
	r := Check(buildDataset(t))
	if !r.Valid {
		t.Errorf("Valid = false on empty dataset, violations: %v", r.Violations)
	}
}
