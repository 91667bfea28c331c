package config

import "errors"

var (
	// ErrInvalidTarget is returned when a nil pointer is passed to Load.
	ErrInvalidTarget = errors.New("invalid config target")
	// ErrParseFailed is returned when environment parsing fails,
	// e.g. a required variable is missing or a value is malformed.
	ErrParseFailed = errors.New("failed to parse config from environment")
)
