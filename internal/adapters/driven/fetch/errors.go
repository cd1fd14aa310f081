package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotSingleModel indicates a fetched uri held zero or several models.
var ErrNotSingleModel = errors.New("fetch: expected exactly one model")

// RateLimitError is returned when a host keeps refusing requests with 429.
type RateLimitError struct {
	URL     string
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("fetch: rate limited by %s, retry at %s", e.URL, e.RetryAt.Format(time.RFC3339))
}

// HTTPError is a non-success response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch: %s returned %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// isTransient reports whether a request may succeed when retried.
func isTransient(err error) bool {
	if IsRateLimited(err) {
		return true
	}
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode >= 500
}
