package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates a required value was empty or whitespace-only.
	ErrEmpty = errors.New("must be non-empty")

	// ErrTooLong indicates a value exceeded its maximum length.
	ErrTooLong = errors.New("is too long")

	// ErrForbiddenCharacter indicates a value contained a character that is not allowed.
	ErrForbiddenCharacter = errors.New("contains a forbidden character")

	// ErrMalformedAddress indicates a value is not a valid email address.
	ErrMalformedAddress = errors.New("is not a valid email address")
)

// ValidationError reports which form field failed validation and why.
// Reason is one of the sentinel errors above and is matched with errors.Is.
type ValidationError struct {
	Field  string
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s", e.Field, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }
