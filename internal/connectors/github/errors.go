package github

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// GitHub-specific errors.
var (
	// ErrInvalidRepo indicates the repository is not in "owner/name" form.
	ErrInvalidRepo = errors.New("github: repository must be owner/name")

	// ErrTreeTruncated indicates the repository tree exceeded the API limit.
	ErrTreeTruncated = errors.New("github: repository tree truncated")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap allows errors.Is(err, domain.ErrRateLimited).
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps authentication and lookup failures onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return domain.ErrAuthRequired
	case 404:
		return domain.ErrNotFound
	}
	return nil
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
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
		return apiErr.StatusCode == 401
	}
	return false
}
