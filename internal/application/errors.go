// Package application contains the storefront use-case services. Services
// depend only on port interfaces and return sentinel errors that the driving
// adapter maps to HTTP statuses.
package application

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases are deliberately indistinguishable so
	// responses cannot be used to probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned for a deactivated account, even when
	// the supplied password is correct.
	ErrAccountInactive = errors.New("account is deactivated")

	// ErrRateLimited is returned when the client key is locked out.
	ErrRateLimited = errors.New("too many failed login attempts")

	// ErrEmailTaken is returned when registering an email that already has a
	// login.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned for duplicate inserts such as adding a
	// product to a wishlist twice.
	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput wraps field-level validation failures so the driving
	// adapter can map them to 400 rather than 500.
	ErrInvalidInput = errors.New("invalid input")
)

// isUniqueViolation detects a SQLite UNIQUE constraint failure by message.
// The driver exposes constraint failures only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
