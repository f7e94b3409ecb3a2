// Package validation provides input validation for user-supplied paths.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Limits for user-supplied paths.
const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrEmptyPath   = errors.New("path cannot be empty")
	ErrPathTooLong = errors.New("path too long")
	ErrNullByte    = errors.New("path contains null byte")
)

// ValidatePath rejects obviously unusable user-supplied paths before any
// I/O happens.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return fmt.Errorf("%w: %d characters", ErrPathTooLong, len(path))
	}
	if strings.ContainsRune(path, 0) {
		return ErrNullByte
	}
	return nil
}
