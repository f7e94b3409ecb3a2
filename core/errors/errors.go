// Package errors provides standardized error types and helpers for the sendxpt codebase.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrUnknownDomain indicates no schema is registered for a domain code
	ErrUnknownDomain = errors.New("unknown domain")
	// ErrMissingColumn indicates a schema-required column is absent from the input
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedNumeric indicates a numeric token could not be parsed
	ErrMalformedNumeric = errors.New("malformed numeric")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates an internal system error
	ErrInternal = errors.New("internal error")
)

// UnknownDomainError reports a lookup for a domain code with no registered schema
type UnknownDomainError struct {
	Domain string // Domain code that was requested
	Err    error  // Underlying error, if any
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("no schema registered for domain: %s", e.Domain)
}

func (e *UnknownDomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnknownDomain
}

// MissingColumnError reports schema-required columns absent from an input header
type MissingColumnError struct {
	Domain  string   // Domain whose schema required the columns
	Columns []string // Columns missing from the input header
	Err     error    // Underlying error, if any
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("input for domain %s is missing required columns: %s",
		e.Domain, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMissingColumn
}

// MalformedNumericError reports a numeric token rejected under the reject policy
type MalformedNumericError struct {
	Variable string // Variable whose value failed to parse
	Record   int    // Zero-based record index
	Token    string // Offending token
	Err      error  // Underlying error, if any
}

func (e *MalformedNumericError) Error() string {
	return fmt.Sprintf("record %d: variable %s has malformed numeric value %q",
		e.Record, e.Variable, e.Token)
}

func (e *MalformedNumericError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedNumeric
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "CSV", "XPT", "schema")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewUnknownDomain creates an UnknownDomainError
func NewUnknownDomain(domain string) *UnknownDomainError {
	return &UnknownDomainError{Domain: domain}
}

// NewMissingColumn creates a MissingColumnError
func NewMissingColumn(domain string, columns []string) *MissingColumnError {
	return &MissingColumnError{Domain: domain, Columns: columns}
}

// NewMalformedNumeric creates a MalformedNumericError
func NewMalformedNumeric(variable string, record int, token string) *MalformedNumericError {
	return &MalformedNumericError{Variable: variable, Record: record, Token: token}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
