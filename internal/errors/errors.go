package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the exchange client
var (
	// Session errors
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")

	// Pin errors
	ErrPinNotSet          = errors.New("pin not set")
	ErrInvalidPin         = errors.New("pin must be 4 to 6 digits")
	ErrWrongPin           = errors.New("wrong pin")
	ErrTooManyPinAttempts = errors.New("too many pin attempts")

	// General errors
	ErrNotFound = errors.New("not found")
)

// StatusError is a failure that carries an HTTP status from the remote side.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status carried by the first StatusError in err's chain.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// IsUnauthorized reports whether err carries a 401 status.
func IsUnauthorized(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusUnauthorized
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
