package service

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrValidation is returned when request data fails validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition is returned on a disallowed signal status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
