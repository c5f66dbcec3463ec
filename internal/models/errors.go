package models

import "errors"

// Error taxonomy shared by every layer. Callers wrap these with context and
// the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated marks a request without a usable session token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound marks a resource that does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness or referential constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrForbidden marks access to a resource whose existence is already disclosed.
	ErrForbidden = errors.New("forbidden")
)
