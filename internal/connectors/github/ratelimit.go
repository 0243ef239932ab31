package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// GitHubRateLimit is the authenticated rate limit (5000/hour).
	GitHubRateLimit = 5000

	// ProactiveRate is the proactive throttle rate (~1.2 req/sec = 4320/hr).
	ProactiveRate = 1.2

	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 100

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles requests proactively with a token bucket and
// reactively from the quota GitHub reports in response headers.
type RateLimiter struct {
	bucket    *rate.Limiter
	minBuffer int

	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
}

// NewRateLimiter creates a rate limiter allowing perSecond requests.
// perSecond <= 0 disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		bucket:    rate.NewLimiter(limit, 1),
		minBuffer: MinBuffer,
		remaining: GitHubRateLimit,
		limit:     GitHubRateLimit,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	low := r.remaining < r.minBuffer
	resetTime := r.resetTime
	r.mu.Unlock()

	if !low || !time.Now().Before(resetTime) {
		return nil
	}

	timer := time.NewTimer(time.Until(resetTime))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe records the quota reported by a response.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := headerInt(resp, HeaderRateRemaining); ok {
		r.remaining = int(v)
	}
	if v, ok := headerInt(resp, HeaderRateLimit); ok {
		r.limit = int(v)
	}
	if v, ok := headerInt(resp, HeaderRateReset); ok {
		r.resetTime = time.Unix(v, 0)
	}
}

// CheckRateLimit returns a RateLimitError if resp signals an exhausted quota.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}
	r.Observe(resp)

	r.mu.Lock()
	exhausted := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && r.remaining == 0)
	rlErr := &RateLimitError{ResetAt: r.resetTime, Remaining: r.remaining, Limit: r.limit}
	r.mu.Unlock()

	if !exhausted {
		return nil
	}
	if seconds, ok := headerInt(resp, HeaderRetryAfter); ok {
		rlErr.ResetAt = time.Now().Add(time.Duration(seconds) * time.Second)
	}
	return rlErr
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}

func headerInt(resp *http.Response, name string) (int64, bool) {
	raw := resp.Header.Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	return v, err == nil
}
