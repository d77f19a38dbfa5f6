// Package common defines shared constants and sentinel errors used across
// the PLMS server and client. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors (missing or malformed input).
	ErrorValidation = errors.New("validation error")

	// ErrorAlreadyExists reports a clash with a unique field such as a
	// tool number.
	ErrorAlreadyExists = errors.New("already exists")

	// Session token errors. Decoding never reports why a token was rejected.
	ErrInvalidToken = errors.New("invalid token")
)
