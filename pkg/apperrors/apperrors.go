// Package apperrors defines the error kinds shared by repositories and handlers.
// Repositories wrap these sentinels with context (fmt.Errorf %w); handlers classify
// with errors.Is and map each kind to an HTTP status via pkg/response.
package apperrors

import "errors"

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument means the input is malformed or violates a constraint
	// (duplicate choice number, empty choice list, unknown category id).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict means a unique value is already taken (email, username).
	ErrConflict = errors.New("conflict")
	// ErrUnauthenticated means no identity could be resolved from the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the resolved identity lacks required ownership.
	ErrForbidden = errors.New("forbidden")
)
