package sanity

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the API token is missing, invalid or lacks write access
var ErrUnauthorized = errors.New("sanity API rejected the token")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("sanity API rate limit exceeded")

// APIError is a non-success response from the Sanity API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sanity API error: HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode >= 500
}
