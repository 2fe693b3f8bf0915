package models

import (
	"fmt"
	"net/http"
)

// AuthError represents an authentication failure reported by the storefront
// backend or detected while interpreting its response. It implements the error
// interface and carries the HTTP status code that produced it, when one exists.
type AuthError struct {
	// Code is the stable machine-readable error code (e.g., "invalid_credentials").
	Code string `json:"error"`
	// Description provides additional human-readable error information.
	Description string `json:"error_description,omitempty"`
	// StatusCode is the HTTP status code that produced this error, if any
	// (excluded from JSON).
	StatusCode int `json:"-"`
}

// NewInvalidCredentials creates a new AuthError with the "invalid_credentials"
// error code and the provided description. This error indicates that the
// backend rejected the supplied identifier/password pair (HTTP 401).
func NewInvalidCredentials(description string) *AuthError {
	return &AuthError{
		Code:        "invalid_credentials",
		Description: description,
		StatusCode:  http.StatusUnauthorized,
	}
}

// NewUserExists creates a new AuthError with the "user_exists" error code and
// the provided description. This error indicates that signup was rejected
// because the account already exists (HTTP 409).
func NewUserExists(description string) *AuthError {
	return &AuthError{
		Code:        "user_exists",
		Description: description,
		StatusCode:  http.StatusConflict,
	}
}

// NewInvalidResponse creates a new AuthError with the "invalid_response" error
// code and the provided description. This error indicates that the backend
// returned a success status but the payload was missing required fields or
// could not be decoded.
func NewInvalidResponse(description string) *AuthError {
	return &AuthError{
		Code:        "invalid_response",
		Description: description,
	}
}

// NewAuthUnavailable creates a new AuthError with the "auth_unavailable" error
// code and the provided description. This is the catch-all for authentication
// endpoint failures that are neither a credential rejection nor a duplicate
// account: transport errors, 5xx responses, unexpected status codes.
func NewAuthUnavailable(description string) *AuthError {
	return &AuthError{
		Code:        "auth_unavailable",
		Description: description,
	}
}

// Error returns a string representation of the authentication error.
// It implements the error interface.
func (e *AuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	return e.Code
}

// Is reports whether target is an AuthError with the same code, so that
// errors.Is(err, models.ErrInvalidCredentials) matches regardless of the
// description attached to a particular instance.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	// ErrInvalidCredentials indicates that the backend rejected the supplied
	// identifier/password pair. Mapped from HTTP 401 Unauthorized.
	ErrInvalidCredentials = &AuthError{
		Code:       "invalid_credentials",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrUserExists indicates that signup was rejected because an account with
	// the same email already exists. Mapped from HTTP 409 Conflict.
	ErrUserExists = &AuthError{
		Code:       "user_exists",
		StatusCode: http.StatusConflict,
	}

	// ErrInvalidResponse indicates that an authentication call succeeded at the
	// HTTP level but the payload was malformed (e.g., a login response without
	// a token).
	ErrInvalidResponse = &AuthError{
		Code: "invalid_response",
	}

	// ErrAuthUnavailable is the catch-all for authentication failures that are
	// neither a credential rejection nor a duplicate account.
	ErrAuthUnavailable = &AuthError{
		Code: "auth_unavailable",
	}
)

// ErrNoActiveSession is returned by operations that require an authenticated
// session when none is active. The operation performs no work in that case.
var ErrNoActiveSession = &AuthError{
	Code: "no_active_session",
}

// DataUnavailableError indicates that fetching a catalog collection (products
// or orders) failed. The previously loaded collection remains usable; this
// error only marks the data as stale.
type DataUnavailableError struct {
	// Resource names the collection that could not be fetched ("products", "orders").
	Resource string
	// StatusCode is the HTTP status code, when the failure was an HTTP error.
	StatusCode int
	// Cause is the underlying transport or decode error, if any.
	Cause error
}

// Error returns a string representation of the data fetch failure.
// It implements the error interface.
func (e *DataUnavailableError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s unavailable: %v", e.Resource, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s unavailable: HTTP %d", e.Resource, e.StatusCode)
	default:
		return fmt.Sprintf("%s unavailable", e.Resource)
	}
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *DataUnavailableError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a single field validation error.
// It contains the field name that failed validation and a human-readable
// message describing the validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns a string representation of the validation error in the format
// "field: message". It implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a slice of ValidationError that represents multiple
// field validation errors. It implements the error interface and provides
// methods for handling collections of validation errors.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
// If there are no errors, it returns "validation failed".
// If there is one error, it returns that error's message.
// If there are multiple errors, it returns a summary with the count.
// It implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("validation failed with %d errors", len(e))
}

// HasErrors returns true if there are one or more validation errors in the collection.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
