// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrInvalidInput marks non-numeric or empty required input. Nothing is
	// written when it is returned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageUnavailable marks a data file that cannot be created or opened.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrIOFailure marks an import/export path that cannot be read or written.
	ErrIOFailure = errors.New("i/o failure")
	// ErrNotFound marks a lookup that matched nothing where a match is required.
	ErrNotFound = errors.New("not found")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Describe returns a short hint for the error class of err, or an empty
// string when err is not one of the sentinels above.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "check the value and try again"
	case errors.Is(err, ErrStorageUnavailable):
		return "the budget file could not be opened; check database.path and its permissions"
	case errors.Is(err, ErrIOFailure):
		return "the file could not be read or written"
	case errors.Is(err, ErrNotFound):
		return "nothing matched"
	default:
		return ""
	}
}
