package domain

import "errors"

// Sentinel errors shared across entities.
var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when the request is invalid.
	ErrInvalidInput = errors.New("invalid input")
)
