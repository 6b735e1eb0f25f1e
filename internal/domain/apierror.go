package domain

import (
	"fmt"
	"net/http"
)

// APIError carries a non-2xx response from the report service. RetryAfter is
// only meaningful for rate-limit responses and is zero when the server did not
// send the header.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter int // seconds
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sparlo api: %s (http %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("sparlo api: http %d", e.StatusCode)
}

// RateLimited reports whether this error is the 429 class that should be
// surfaced with a wait hint rather than a generic failure.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
