package user

import "errors"

// Validation errors raised at account construction. Boundary layers map
// these to 400-class responses.
var (
	// ErrInvalidEmail is returned for an address that does not parse.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword is returned when a password is below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrPasswordTooLong is returned when a password exceeds the bcrypt limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")

	// ErrFullNameRequired is returned when the full name trims to empty.
	ErrFullNameRequired = errors.New("full name is required")
)
