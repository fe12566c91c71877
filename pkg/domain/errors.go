package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrUnauthenticated is returned when the caller presents no usable credentials
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccessDenied is returned when an authenticated caller may not touch the targeted row
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrAlreadyAssigned is returned when a tag is already assigned to a transaction
	ErrAlreadyAssigned = errors.New("tag already assigned to transaction")
	// ErrNoAccountAvailable is returned when an operation needs an owned account and there is none
	ErrNoAccountAvailable = errors.New("no account available")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrReportFailure hides store failures raised while computing a report
	ErrReportFailure = errors.New("report failure")

	// ErrExpiredToken is returned when a session token is past its expiry
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrUnauthenticated)
	// ErrInvalidToken is returned for every other token verification failure
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
)

// Validationf returns an ErrValidation carrying a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
