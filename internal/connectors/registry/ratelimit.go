package registry

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// DefaultRetryAfter is the pause after a 429 without a Retry-After header.
	// The hosted registry asks clients to back off for 30 seconds.
	DefaultRetryAfter = 30 * time.Second
)

// RateLimiter paces registry requests.
// It combines a fixed inter-request delay with reactive pauses after 429 responses.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter // Proactive pacing
	pausedUntil time.Time     // From 429 responses
}

// NewRateLimiter creates a limiter allowing one request per delay.
// A zero delay disables proactive pacing.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Honour any pause requested by the server
	r.mu.Lock()
	until := r.pausedUntil
	r.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	// 2. Token bucket
	return r.bucket.Wait(ctx)
}

// CheckRateLimit returns a RateLimitError for a 429 response and pauses
// further requests for the advertised duration.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	retryAfter := DefaultRetryAfter
	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}

	r.Pause(retryAfter)
	return &RateLimitError{RetryAfter: retryAfter}
}

// Pause blocks requests for d, unless a longer pause is already in effect.
func (r *RateLimiter) Pause(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(d); until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// PausedUntil returns the end of the current server-requested pause.
func (r *RateLimiter) PausedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedUntil
}
