package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns domain.ErrAuthRequired if no token is configured.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
