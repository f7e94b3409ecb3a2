// Package schema defines the typed variable model for SEND datasets.
package schema

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVariableLookup verifies variable lookup by name and index.
func TestVariableLookup(t *testing.T) {
	s := &DatasetSchema{
		Domain: "TE",
		Variables: []VariableSpec{
			chr("STUDYID", 20, "Study Identifier"),
			num("TESEQ", "Sequence Number"),
		},
	}

	v, ok := s.Variable("TESEQ")
	if !ok {
		t.Fatal("Variable(TESEQ) not found")
	}
	if v.Kind != Numeric {
		t.Errorf("Kind = %q, want %q", v.Kind, Numeric)
	}
	if s.Index("STUDYID") != 0 {
		t.Errorf("Index(STUDYID) = %d, want 0", s.Index("STUDYID"))
	}
	if s.Index("NOPE") != -1 {
		t.Errorf("Index(NOPE) = %d, want -1", s.Index("NOPE"))
	}
}

// TestSequenceVariable verifies the sequence variable name derives from the domain.
func TestSequenceVariable(t *testing.T) {
	s := &DatasetSchema{Domain: "MI"}
	if got := s.SequenceVariable(); got != "MISEQ" {
		t.Errorf("SequenceVariable() = %q, want %q", got, "MISEQ")
	}
}

// TestRequiredOmitsUndefinedVariables verifies required variables are limited
// to what the schema actually defines.
func TestRequiredOmitsUndefinedVariables(t *testing.T) {
	s := &DatasetSchema{
		Domain: "TS",
		Variables: []VariableSpec{
			chr("STUDYID", 20, "Study Identifier"),
			chr("DOMAIN", 2, "Domain Abbreviation"),
			num("TSSEQ", "Sequence Number"),
		},
	}
	required := s.Required()
	want := []string{"STUDYID", "DOMAIN", "TSSEQ"}
	if len(required) != len(want) {
		t.Fatalf("Required() = %v, want %v", required, want)
	}
	for i := range want {
		if required[i] != want[i] {
			t.Errorf("Required()[%d] = %q, want %q", i, required[i], want[i])
		}
	}
}

// TestSchemaValidate verifies structural schema checks.
func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  DatasetSchema
		wantErr bool
	}{
		{
			name: "valid",
			schema: DatasetSchema{
				Domain:    "TE",
				Variables: []VariableSpec{chr("STUDYID", 20, "Study Identifier")},
			},
		},
		{
			name:    "empty domain",
			schema:  DatasetSchema{Variables: []VariableSpec{chr("STUDYID", 20, "")}},
			wantErr: true,
		},
		{
			name: "lowercase domain",
			schema: DatasetSchema{
				Domain:    "te",
				Variables: []VariableSpec{chr("STUDYID", 20, "")},
			},
			wantErr: true,
		},
		{
			name:    "no variables",
			schema:  DatasetSchema{Domain: "TE"},
			wantErr: true,
		},
		{
			name: "name too long",
			schema: DatasetSchema{
				Domain:    "TE",
				Variables: []VariableSpec{chr("TOOLONGNAME", 20, "")},
			},
			wantErr: true,
		},
		{
			name: "duplicate variable",
			schema: DatasetSchema{
				Domain:    "TE",
				Variables: []VariableSpec{chr("TESPEC", 40, ""), chr("TESPEC", 40, "")},
			},
			wantErr: true,
		},
		{
			name: "character length over limit",
			schema: DatasetSchema{
				Domain:    "TE",
				Variables: []VariableSpec{chr("TEORRES", 201, "")},
			},
			wantErr: true,
		},
		{
			name: "numeric length not eight",
			schema: DatasetSchema{
				Domain: "TE",
				Variables: []VariableSpec{
					{Name: "TESEQ", Kind: Numeric, Length: 4},
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestRegistryLookup verifies lookup is case-insensitive on the domain code.
func TestRegistryLookup(t *testing.T) {
	r := BuiltinRegistry()

	s, err := r.Lookup("te")
	if err != nil {
		t.Fatalf("Lookup(te) failed: %v", err)
	}
	if s.Domain != "TE" {
		t.Errorf("Domain = %q, want %q", s.Domain, "TE")
	}

	if _, err := r.Lookup("ZZ"); err == nil {
		t.Error("Lookup(ZZ) should fail for an unknown domain")
	}
}

// TestBuiltinRegistryDomains verifies the builtin registry covers the
// standard domains and every schema passes validation.
func TestBuiltinRegistryDomains(t *testing.T) {
	r := BuiltinRegistry()
	for _, domain := range []string{"TE", "MI", "MA", "BW", "OM", "CL", "LB", "DM", "EX", "TS"} {
		s, err := r.Lookup(domain)
		if err != nil {
			t.Errorf("Lookup(%s) failed: %v", domain, err)
			continue
		}
		if err := s.Validate(); err != nil {
			t.Errorf("builtin schema %s invalid: %v", domain, err)
		}
	}
}

// TestLoadDir verifies JSON schema files merge over the builtin registry.
func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	body := `{
		"domain": "PC",
		"label": "Pharmacokinetics Concentrations",
		"variables": [
			{"name": "STUDYID", "kind": "character", "length": 20, "label": "Study Identifier"},
			{"name": "DOMAIN", "kind": "character", "length": 2, "label": "Domain Abbreviation"},
			{"name": "USUBJID", "kind": "character", "length": 64, "label": "Unique Subject Identifier"},
			{"name": "PCSEQ", "kind": "numeric", "length": 8, "label": "Sequence Number"}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "pc.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	r := BuiltinRegistry()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	s, err := r.Lookup("PC")
	if err != nil {
		t.Fatalf("Lookup(PC) failed: %v", err)
	}
	if len(s.Variables) != 4 {
		t.Errorf("PC variables = %d, want 4", len(s.Variables))
	}
}

// TestLoadDirRejectsInvalidSchema verifies invalid schema files fail the load.
func TestLoadDirRejectsInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"domain":"bad"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	if err := r.LoadDir(dir); err == nil {
		t.Error("LoadDir should fail for an invalid schema file")
	}
}
