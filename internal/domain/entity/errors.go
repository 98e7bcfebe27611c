// Package entity defines the core domain value types shared across the pipeline:
// feed entries, articles, article summaries, and the keyword sets and pipeline
// statistics that travel alongside them.
package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is allows errors.Is(err, ErrValidationFailed) to match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
