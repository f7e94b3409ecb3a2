// Package schema defines the typed variable model for SEND datasets and a
// registry mapping domain codes to their ordered variable specifications.
package schema

import (
	"fmt"
	"strings"
)

// Kind is the storage type of a variable.
type Kind string

const (
	// Numeric variables are stored as double-precision values.
	Numeric Kind = "numeric"
	// Character variables are stored as fixed-length text.
	Character Kind = "character"
)

// MaxCharacterLength is the longest character value the transport format
// carries per variable.
const MaxCharacterLength = 200

// NumericFieldLength is the encoded width of a numeric variable in bytes.
const NumericFieldLength = 8

// Names of variables with designated roles across all domains.
const (
	StudyVariable   = "STUDYID"
	DomainVariable  = "DOMAIN"
	SubjectVariable = "USUBJID"
)

// VariableSpec describes one dataset variable. Immutable once defined.
type VariableSpec struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Length int    `json:"length"`
	Label  string `json:"label"`
}

// DatasetSchema is the ordered variable specification for one domain.
// Variable order defines on-disk column order.
type DatasetSchema struct {
	Domain    string         `json:"domain"`
	Label     string         `json:"label"`
	Variables []VariableSpec `json:"variables"`
}

// Variable returns the spec for a named variable.
func (s *DatasetSchema) Variable(name string) (VariableSpec, bool) {
	for _, v := range s.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableSpec{}, false
}

// Index returns the position of a named variable, or -1.
func (s *DatasetSchema) Index(name string) int {
	for i, v := range s.Variables {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// SequenceVariable returns the name of the per-record sequence number
// variable, <DOMAIN>SEQ.
func (s *DatasetSchema) SequenceVariable() string {
	return s.Domain + "SEQ"
}

// Required returns the policy-required variables this schema defines:
// study identifier, domain code, subject identifier, and sequence number.
// Domains that carry no subject identifier (e.g. trial summary) simply
// omit it.
func (s *DatasetSchema) Required() []string {
	candidates := []string{StudyVariable, DomainVariable, SubjectVariable, s.SequenceVariable()}
	var required []string
	for _, name := range candidates {
		if _, ok := s.Variable(name); ok {
			required = append(required, name)
		}
	}
	return required
}

// Validate checks schema integrity: canonical domain code, unique variable
// names, sane lengths.
func (s *DatasetSchema) Validate() error {
	if s.Domain == "" {
		return fmt.Errorf("schema domain code is required")
	}
	if s.Domain != strings.ToUpper(s.Domain) {
		return fmt.Errorf("schema domain code must be uppercase: %s", s.Domain)
	}
	if len(s.Variables) == 0 {
		return fmt.Errorf("schema %s must define at least one variable", s.Domain)
	}
	seen := make(map[string]bool, len(s.Variables))
	for _, v := range s.Variables {
		if v.Name == "" {
			return fmt.Errorf("schema %s has a variable with no name", s.Domain)
		}
		if len(v.Name) > 8 {
			return fmt.Errorf("schema %s: variable name %s exceeds 8 characters", s.Domain, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("schema %s: duplicate variable %s", s.Domain, v.Name)
		}
		seen[v.Name] = true
		switch v.Kind {
		case Character:
			if v.Length < 1 || v.Length > MaxCharacterLength {
				return fmt.Errorf("schema %s: variable %s length %d out of range 1..%d",
					s.Domain, v.Name, v.Length, MaxCharacterLength)
			}
		case Numeric:
			if v.Length != NumericFieldLength {
				return fmt.Errorf("schema %s: numeric variable %s must have length %d",
					s.Domain, v.Name, NumericFieldLength)
			}
		default:
			return fmt.Errorf("schema %s: variable %s has unknown kind %q", s.Domain, v.Name, v.Kind)
		}
	}
	return nil
}
