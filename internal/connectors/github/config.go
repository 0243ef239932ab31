package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// DefaultRef is used when no ref is configured.
const DefaultRef = "main"

// Config holds the parsed configuration for a GitHub corpus.
type Config struct {
	Owner string
	Repo  string

	// Ref is a branch, tag or commit SHA.
	Ref string

	// Include are doublestar patterns for file filtering.
	// Default: all files
	Include []string
}

// ParseConfig builds a Config from corpus settings.
func ParseConfig(settings domain.CorpusSettings) (*Config, error) {
	owner, repo, err := ParseRepo(settings.GitHubRepo)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Owner:   owner,
		Repo:    repo,
		Ref:     strings.TrimSpace(settings.GitHubRef),
		Include: settings.Include,
	}
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}
	return cfg, nil
}

// ParseRepo splits "owner/name", tolerating a github.com URL prefix
// and a trailing ".git".
func ParseRepo(s string) (owner, repo string, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepo, s)
	}
	return parts[0], parts[1], nil
}

// FullName returns "owner/name".
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}
