package domain

import "errors"

// Sentinel errors for the application. Point lookups do not use ErrNotFound
// for absence; they return a nil record. ErrNotFound is reserved for callers
// that require the record to exist.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal server error")
	ErrDatabaseConnection = errors.New("database connection error")
)
