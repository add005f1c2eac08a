package backend

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// APIError is returned when the backend answers but the call did not succeed:
// either a non-2xx status or a 2xx body without `success: true`.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the server's `error` text, empty when it sent none.
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Success2xx reports whether the transport-level status was a success; the
// failure was then reported in the body.
func (e *APIError) Success2xx() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// RateLimited reports whether the backend rejected the call with 429.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// UserText is the message the user should see for this error, or empty when
// the caller's fallback applies.
func (e *APIError) UserText() string {
	if e.RateLimited() && e.RetryAfter > 0 {
		secs := int(math.Ceil(e.RetryAfter.Seconds()))
		return fmt.Sprintf("Rate limit exceeded (retry in %ds)", secs)
	}
	if e.Message != "" {
		return e.Message
	}
	if !e.Success2xx() {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return ""
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
