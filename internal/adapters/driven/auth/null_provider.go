package auth

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is for sources that require no authentication,
// such as a public GitHub repository.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for no-auth sources.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no authentication is needed.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// IsAuthenticated always returns true since no-auth is always "authenticated".
func (p *NullTokenProvider) IsAuthenticated() bool {
	return true
}
