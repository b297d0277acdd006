package errors

import "errors"

// This package defines a centralized set of sentinel errors for the
// application. Services return these (usually wrapped with context via
// fmt.Errorf and %w) without knowing anything about HTTP; the API layer
// checks them with errors.Is() and maps them to status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation could not be completed because
	// it conflicts with the current state of a resource, e.g. submitting a
	// message while a generation is already in flight for that session.
	// Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal signifies an unexpected server-side error. Used to avoid
	// leaking implementation details to the client. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
