// Package common defines shared constants and sentinel errors used across
// the bookapi server and its tools. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Credential errors. ErrInvalidCredentials is the only kind
	// a login caller ever sees, whatever the underlying reason.
	ErrDuplicateAccount      = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrMalformedStoredSecret = errors.New("malformed stored secret")

	// Startup errors.
	ErrConfiguration = errors.New("configuration error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Cover storage is not configured.
	ErrCoversDisabled = errors.New("cover storage disabled")
)
