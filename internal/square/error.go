package square

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error is a single vendor sub-error as returned in the response body.
type Error struct {
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

// APIError carries the vendor status code and sub-error list so handlers can
// pass them through to the client unchanged.
type APIError struct {
	StatusCode int     `json:"statusCode"`
	Errors     []Error `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("square: status %d: %s (%s)", e.StatusCode, e.Errors[0].Code, e.Errors[0].Category)
	}
	return fmt.Sprintf("square: status %d", e.StatusCode)
}

// Terminal reports whether the vendor rejected the request semantically.
// Retrying such a request cannot succeed, so the retry executor bails.
func (e *APIError) Terminal() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsTimeout reports whether the outbound call was cut off by the request
// deadline. Timeouts are surfaced as 504 and never retried.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
