package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// ErrInvalidResponse indicates a response body that could not be decoded.
var ErrInvalidResponse = errors.New("registry: invalid response")

// RateLimitError represents a 429 response with the time to wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("registry: rate limit exceeded, retry after %s", e.RetryAfter)
}

// Unwrap lets errors.Is match domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError represents a registry API error response.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Type
	}
	return fmt.Sprintf("registry: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// Unwrap maps auth and lookup failures onto domain sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return domain.ErrAuthRequired
	case 404:
		return domain.ErrNotFound
	default:
		return nil
	}
}

// IsNotFound checks if the error indicates the base or table was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsTransient checks if a request may succeed when retried:
// network failures, rate limiting and 5xx responses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrInvalidResponse) {
		return false
	}
	if IsRateLimited(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return true
}
