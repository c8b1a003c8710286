package domain

import "errors"

// Error kinds signalled by the domain layer. The API layer is the only place
// these are translated to HTTP status codes.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)
