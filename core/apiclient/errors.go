package apiclient

import "errors"

var (
	// ErrCircuitOpen is returned immediately, without network I/O, while the
	// circuit breaker is protecting the endpoint.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrRequestFailed is returned after all retry attempts are exhausted.
	ErrRequestFailed = errors.New("request failed")
	// ErrInvalidBaseURL is returned by path-based helpers when the client
	// was constructed without a base URL.
	ErrInvalidBaseURL = errors.New("base URL is not configured")
)
