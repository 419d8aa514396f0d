package services

import (
	"errors"
	"fmt"

	"github.com/gearbook/gearbook-api/internal/repository"
	"gorm.io/gorm"
)

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("record was modified concurrently, re-read and retry")
)

// ValidationError marks a missing or invalid input field. Workflows validate
// before any write and fail fast with one of these.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-level validation error
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// CollaboratorError wraps a failed call to the document store or the finance
// ledger writer. Step names which workflow step failed, so a caller or
// reconciler can decide what to retry; steps before it are not rolled back.
type CollaboratorError struct {
	Step string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("workflow step %q failed: %v", e.Step, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NewCollaboratorError wraps err with the failed workflow step
func NewCollaboratorError(step string, err error) error {
	return &CollaboratorError{Step: step, Err: err}
}

// IsCollaborator reports whether err is a collaborator failure
func IsCollaborator(err error) bool {
	var c *CollaboratorError
	return errors.As(err, &c)
}

// translateRepoErr maps repository-level sentinels to service errors
func translateRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStaleRecord):
		return ErrConflict
	}
	return err
}
