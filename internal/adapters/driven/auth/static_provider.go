package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider provides a fixed personal access token or API key.
// Static tokens don't expire and don't require refresh.
type StaticTokenProvider struct {
	name  string
	token string
}

// NewStaticTokenProvider creates a token provider for a configured token.
// name identifies the setting the token came from in error messages.
func NewStaticTokenProvider(name, token string) *StaticTokenProvider {
	return &StaticTokenProvider{name: name, token: token}
}

// GetToken returns the token, or domain.ErrAuthRequired if none is set.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrAuthRequired, p.name)
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is configured.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

// ForSettings returns the provider for a configured token, falling back to
// NullTokenProvider when optional is true and no token is set.
func ForSettings(name, token string, optional bool) driven.TokenProvider {
	if token == "" && optional {
		return NewNullTokenProvider()
	}
	return NewStaticTokenProvider(name, token)
}
