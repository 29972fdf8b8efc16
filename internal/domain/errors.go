package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrDataIntegrity is returned when content items and their tracking
	// records disagree. It indicates a broken create/delete path and is
	// never recovered from automatically.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error. When no explicit cause is given the
// error unwraps to ErrValidation so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is reports ErrValidation as a match regardless of the wrapped cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// DataIntegrityError reports the mismatch found between an owner's content
// items and tracking records.
type DataIntegrityError struct {
	Kind             ItemKind
	OrphanedTracking int // tracking records without an item
	UntrackedItems   int // items without a tracking record
}

// Error implements the error interface.
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf(
		"%s: %s store has %d orphaned tracking records and %d untracked items",
		ErrDataIntegrity,
		e.Kind,
		e.OrphanedTracking,
		e.UntrackedItems,
	)
}

// Unwrap returns ErrDataIntegrity.
func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}
