// Package wellness holds the error taxonomy shared across the service.
//
// Every failure in the core is value-based: repositories and stores return
// these errors, handlers translate them to HTTP statuses. Nothing on a
// request path panics.
package wellness

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a referenced user or appointment does not
	// exist. It must never be swallowed into a false success.
	ErrNotFound = errors.New("not found")

	// ErrUserExists signals a registration against an already-taken mobile
	// number.
	ErrUserExists = errors.New("user already exists")

	// ErrIllegalTransition signals an appointment status edge that the
	// lifecycle does not permit (e.g. completed back to upcoming).
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrVersionConflict signals a lost race on a record write: the record
	// changed between read and write. Callers retry the whole mutation.
	ErrVersionConflict = errors.New("record version conflict")

	// ErrAssistantUnavailable signals that the conversational service
	// failed or is not configured. Handlers degrade to a fallback reply.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)

// ValidationError reports a missing or malformed field, caught before any
// write reaches the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
