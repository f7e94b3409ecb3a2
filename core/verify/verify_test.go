package verify

import (
	"strings"
	"testing"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/schema"
	"github.com/sendstack/sendxpt/core/xpt"
)

func testSchema() *schema.DatasetSchema {
	return &schema.DatasetSchema{
		Domain: "TE",
		Label:  "Tissue Examination",
		Variables: []schema.VariableSpec{
			{Name: "STUDYID", Kind: schema.Character, Length: 20, Label: "Study Identifier"},
			{Name: "DOMAIN", Kind: schema.Character, Length: 2, Label: "Domain Abbreviation"},
			{Name: "TESEQ", Kind: schema.Numeric, Length: 8, Label: "Sequence Number"},
		},
	}
}

func testDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	s := testSchema()
	d := dataset.New(s)
	for i := 0; i < n; i++ {
		rec := dataset.NewRecord(s)
		rec.Values[0].Chr = "1121-2781"
		rec.Values[1].Chr = "TE"
		rec.Values[2].Num = float64(i + 1)
		if err := d.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return d
}

// TestRoundTripOK verifies a clean encode verifies without warnings.
func TestRoundTripOK(t *testing.T) {
	d := testDataset(t, 7)
	data, err := xpt.EncodeBytes(d, xpt.Options{})
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}

	res := RoundTrip(data, d)
	if !res.OK {
		t.Errorf("OK = false, warnings: %v", res.Warnings)
	}
	if res.DecodedRecords != 7 {
		t.Errorf("DecodedRecords = %d, want 7", res.DecodedRecords)
	}
}

// TestRoundTripUndecodable verifies a corrupt stream yields a decode warning.
func TestRoundTripUndecodable(t *testing.T) {
	d := testDataset(t, 1)
	res := RoundTrip([]byte("not a transport file"), d)
	if res.OK {
		t.Fatal("OK = true for a corrupt stream")
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "failed to decode") {
		t.Errorf("Warnings = %v, want decode failure", res.Warnings)
	}
}

// TestRoundTripWrongMember verifies a member/domain mismatch is warned.
func TestRoundTripWrongMember(t *testing.T) {
	d := testDataset(t, 2)
	data, err := xpt.EncodeBytes(d, xpt.Options{})
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}

	other := testDataset(t, 2)
	other.Schema = &schema.DatasetSchema{
		Domain:    "MI",
		Variables: other.Schema.Variables,
	}
	res := RoundTrip(data, other)
	if res.OK {
		t.Fatal("OK = true for a member mismatch")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, `member name "TE"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want member mismatch", res.Warnings)
	}
}

// TestRoundTripRecordCount verifies a record count mismatch is warned.
func TestRoundTripRecordCount(t *testing.T) {
	data, err := xpt.EncodeBytes(testDataset(t, 3), xpt.Options{})
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}
	res := RoundTrip(data, testDataset(t, 5))
	if res.OK {
		t.Fatal("OK = true for a record count mismatch")
	}
}

// TestRoundTripValueMismatch verifies sample comparison catches altered values.
func TestRoundTripValueMismatch(t *testing.T) {
	d := testDataset(t, 2)
	data, err := xpt.EncodeBytes(d, xpt.Options{})
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}

	d.SetChr(0, "STUDYID", "DIFFERENT")
	res := RoundTrip(data, d)
	if res.OK {
		t.Fatal("OK = true after mutating the source record")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "STUDYID") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want STUDYID mismatch", res.Warnings)
	}
}
