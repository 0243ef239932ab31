package registry

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// Config holds the parsed configuration for a registry table.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.airtable.com/v0".
	BaseURL string

	// BaseID and Table address the record collection.
	BaseID string
	Table  string

	// IdentifierField is the field holding the document identifier.
	IdentifierField string

	// RequestDelay is the minimum spacing between requests.
	RequestDelay time.Duration

	// MaxAttempts is the total number of tries per request (at least 1).
	MaxAttempts int

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// ParseConfig validates registry settings into a Config.
func ParseConfig(s domain.RegistrySettings) (*Config, error) {
	cfg := &Config{
		BaseURL:         strings.TrimRight(strings.TrimSpace(s.BaseURL), "/"),
		BaseID:          strings.TrimSpace(s.BaseID),
		Table:           strings.TrimSpace(s.Table),
		IdentifierField: s.IdentifierField,
		RequestDelay:    s.RequestDelay,
		MaxAttempts:     s.MaxAttempts,
		Timeout:         s.Timeout,
	}

	if cfg.BaseURL == "" || cfg.BaseID == "" || cfg.Table == "" {
		return nil, fmt.Errorf("%w: registry base_url, base_id and table are required", domain.ErrNotConfigured)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: registry base_url: %w", domain.ErrInvalidInput, err)
	}
	if cfg.IdentifierField == "" {
		cfg.IdentifierField = domain.DefaultSettings().Registry.IdentifierField
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = MaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 0
	}
	return cfg, nil
}

// TableURL returns the collection endpoint.
func (c *Config) TableURL() string {
	return c.BaseURL + "/" + url.PathEscape(c.BaseID) + "/" + url.PathEscape(c.Table)
}
