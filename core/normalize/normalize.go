// Package normalize applies coercion, truncation, and sanitization rules to
// a raw dataset so it conforms to its schema's declared constraints.
//
// Normalization mutates the dataset in place and is the last mutation in a
// conversion; everything downstream reads only.
package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/schema"
)

// NumericPolicy selects what happens to a numeric cell whose token could
// not be parsed.
type NumericPolicy int

const (
	// ZeroFill substitutes 0.0 silently. This mirrors the historical
	// conversion behavior and is the default.
	ZeroFill NumericPolicy = iota
	// FlagBad substitutes 0.0 and records an outcome for the caller.
	FlagBad
	// Reject fails the conversion on the first malformed token, before any
	// output is written.
	Reject
)

// String returns the policy's CLI spelling.
func (p NumericPolicy) String() string {
	switch p {
	case FlagBad:
		return "flag"
	case Reject:
		return "reject"
	default:
		return "zero"
	}
}

// ParsePolicy converts a CLI spelling into a NumericPolicy.
func ParsePolicy(s string) (NumericPolicy, error) {
	switch strings.ToLower(s) {
	case "zero", "":
		return ZeroFill, nil
	case "flag":
		return FlagBad, nil
	case "reject":
		return Reject, nil
	}
	return ZeroFill, fmt.Errorf("unknown numeric policy: %s", s)
}

// OutcomeKind classifies a recovered data-quality event.
type OutcomeKind string

const (
	// Truncated marks a character value cut to its declared length.
	Truncated OutcomeKind = "truncated"
	// StrippedControl marks control-range characters removed from a value.
	StrippedControl OutcomeKind = "stripped-control"
	// MalformedNumeric marks a numeric token replaced with zero.
	MalformedNumeric OutcomeKind = "malformed-numeric"
)

// Outcome is one observable normalization event. Outcomes surface what the
// historical pipeline did silently; callers decide whether to care.
type Outcome struct {
	Kind     OutcomeKind
	Record   int
	Variable string
	Detail   string
}

// Result aggregates the outcomes of one normalization pass.
type Result struct {
	Outcomes []Outcome
}

// Counts returns outcome totals keyed by kind.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int)
	for _, o := range r.Outcomes {
		counts[string(o.Kind)]++
	}
	return counts
}

func (r *Result) add(kind OutcomeKind, record int, variable, detail string) {
	r.Outcomes = append(r.Outcomes, Outcome{Kind: kind, Record: record, Variable: variable, Detail: detail})
}

// Options configures a normalization pass.
type Options struct {
	Policy NumericPolicy
}

// Sentinel tokens that mean "no value" in character columns, matched
// case-insensitively.
var emptySentinels = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"nil":  true,
}

// Apply normalizes the dataset in place:
//
//   - character values: sentinel "empty" tokens become the empty string,
//     control-range characters are stripped, then the value is truncated to
//     its declared length;
//   - numeric values: missing or malformed tokens are resolved per the
//     numeric policy;
//   - the domain field is set to the schema's canonical uppercase code;
//   - the subject identifier is rewritten as <study-id>-<raw-subject-token>.
//
// The returned Result lists every truncation, strip, and substitution.
func Apply(d *dataset.Dataset, opts Options) (*Result, error) {
	res := &Result{}
	s := d.Schema
	domainIdx := s.Index(schema.DomainVariable)

	for ri := range d.Records {
		rec := &d.Records[ri]

		// Sanitize character values before identifier rewriting so the
		// subject identifier is composed from clean parts.
		for vi, spec := range s.Variables {
			if spec.Kind != schema.Character {
				continue
			}
			v := &rec.Values[vi]
			v.Chr = scrubSentinel(v.Chr)
			if stripped := stripControl(v.Chr); stripped != v.Chr {
				res.add(StrippedControl, ri, spec.Name, "control characters removed")
				v.Chr = stripped
			}
		}

		if domainIdx >= 0 {
			rec.Values[domainIdx].Chr = s.Domain
		}
		rewriteSubject(d, ri)

		// Truncate after the rewrite so composed identifiers honor their
		// declared length too.
		for vi, spec := range s.Variables {
			v := &rec.Values[vi]
			switch spec.Kind {
			case schema.Character:
				if truncated, ok := truncate(v.Chr, spec.Length); ok {
					res.add(Truncated, ri, spec.Name,
						fmt.Sprintf("value truncated to fit %d bytes", spec.Length))
					v.Chr = truncated
				}
			case schema.Numeric:
				if err := resolveNumeric(v, opts.Policy, res, ri, spec.Name); err != nil {
					return nil, err
				}
			}
		}
	}
	return res, nil
}

func resolveNumeric(v *dataset.Value, policy NumericPolicy, res *Result, record int, name string) error {
	if v.Malformed {
		switch policy {
		case Reject:
			return errors.NewMalformedNumeric(name, record, v.Raw)
		case FlagBad:
			res.add(MalformedNumeric, record, name,
				fmt.Sprintf("token %q replaced with 0", v.Raw))
		}
		v.Num = 0
	}
	if v.Missing {
		v.Num = 0
	}
	return nil
}

// rewriteSubject forms USUBJID as <STUDYID>-<raw token>. Tokens already
// carrying the study prefix are kept as-is; an empty token leaves the
// identifier empty for the validator to report.
func rewriteSubject(d *dataset.Dataset, ri int) {
	subjIdx := d.Schema.Index(schema.SubjectVariable)
	studyIdx := d.Schema.Index(schema.StudyVariable)
	if subjIdx < 0 || studyIdx < 0 {
		return
	}
	token := d.Records[ri].Values[subjIdx].Chr
	study := d.Records[ri].Values[studyIdx].Chr
	if token == "" || study == "" {
		return
	}
	if strings.HasPrefix(token, study+"-") {
		return
	}
	d.Records[ri].Values[subjIdx].Chr = study + "-" + token
}

func scrubSentinel(s string) string {
	if emptySentinels[strings.ToLower(strings.TrimSpace(s))] {
		return ""
	}
	return s
}

// stripControl removes characters in the ranges 0x00-0x08, 0x0B-0x0C,
// 0x0E-0x1F, and 0x7F-0x9F.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r <= 0x08,
			r == 0x0B, r == 0x0C,
			r >= 0x0E && r <= 0x1F,
			r >= 0x7F && r <= 0x9F:
			return -1
		}
		return r
	}, s)
}

// truncate cuts s to at most max bytes, reporting whether it did. The
// transport format measures field widths in bytes, so the limit is a byte
// count; the cut lands on a rune boundary so the value stays valid UTF-8.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
