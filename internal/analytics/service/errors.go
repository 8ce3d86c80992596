package service

import "errors"

var (
	// ErrNoData is returned when the store holds nothing to analyze.
	ErrNoData = errors.New("no data available")
	// ErrValidation is returned when request data fails validation.
	ErrValidation = errors.New("validation failed")
)
