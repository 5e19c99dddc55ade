package subscriptionrepo

import "errors"

var (
	// ErrConstraintViolation indicates the store rejected a row on a uniqueness or integrity constraint
	// (for example a duplicate email).
	ErrConstraintViolation = errors.New("subscription violates a storage constraint")

	// ErrConnectivity indicates the store could not be reached or failed the statement.
	ErrConnectivity = errors.New("subscription store unavailable")

	// ErrNotFound indicates no subscription exists for the lookup key.
	ErrNotFound = errors.New("subscription not found")
)
