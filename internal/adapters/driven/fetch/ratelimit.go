package fetch

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// DefaultRetryAfter is the pause applied on 429 without a Retry-After header.
const DefaultRetryAfter = 5 * time.Second

// RateLimiter throttles requests proactively with a token bucket and pauses
// every request after a host answered 429.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter
	pauseUntil time.Time
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per second.
// Values of zero or below disable proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
		now:    time.Now,
	}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	pauseUntil := r.pauseUntil
	r.mu.Unlock()

	if wait := pauseUntil.Sub(r.now()); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// CheckResponse records a 429 response and returns a RateLimitError for it.
// Other responses yield nil.
func (r *RateLimiter) CheckResponse(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	retryAt := r.now().Add(retryAfter(resp.Header.Get(HeaderRetryAfter), r.now()))
	r.Pause(retryAt)

	var url string
	if resp.Request != nil {
		url = resp.Request.URL.String()
	}
	return &RateLimitError{URL: url, RetryAt: retryAt}
}

// Pause holds every request until t. An earlier t than the current pause
// is ignored.
func (r *RateLimiter) Pause(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.After(r.pauseUntil) {
		r.pauseUntil = t
	}
}

// PauseUntil returns when requests resume after a 429.
func (r *RateLimiter) PauseUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauseUntil
}

// retryAfter parses a Retry-After value relative to now.
func retryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return DefaultRetryAfter
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return DefaultRetryAfter
}
