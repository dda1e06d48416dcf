package places

import "errors"

var (
	// ErrNotConfigured is returned when no API key is available
	ErrNotConfigured = errors.New("places provider not configured")

	// ErrInvalidRequest covers INVALID_REQUEST, including page tokens used too early
	ErrInvalidRequest = errors.New("invalid places request")

	// ErrNotFound is returned when a place id no longer resolves
	ErrNotFound = errors.New("place not found")

	// ErrQuotaExceeded maps OVER_QUERY_LIMIT
	ErrQuotaExceeded = errors.New("places quota exceeded")

	// ErrRequestDenied maps REQUEST_DENIED, usually a bad or restricted key
	ErrRequestDenied = errors.New("places request denied")

	// ErrNetworkError is returned when the provider cannot be reached
	ErrNetworkError = errors.New("network error")

	// ErrUpstream covers any other non-OK status
	ErrUpstream = errors.New("places provider error")
)
