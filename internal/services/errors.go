package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by every service. Handlers map these to HTTP
// statuses; callers match with errors.Is.
var (
	// ErrValidation: a required field is missing or a referenced entity
	// does not resolve. Raised before any write happens.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization: the requester is not allowed to mutate the row.
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound: the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStore: any other store-level failure (connectivity, constraint).
	// Never retried here; the caller surfaces it.
	ErrStore = errors.New("store failure")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr wraps a database error with the failing operation name.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
