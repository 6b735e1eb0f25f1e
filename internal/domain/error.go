package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrSubmissionInFlight = errors.New("a clarification submission is already in flight")
	ErrWatchTimeout       = errors.New("report did not reach a terminal status in time")
)
