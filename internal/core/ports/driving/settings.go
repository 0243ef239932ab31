package driving

import "github.com/custodia-labs/lexsync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, applying defaults.
	Get() (*domain.Settings, error)

	// Set stores one setting by dot-notation key (e.g., "registry.table").
	Set(key, value string) error

	// Keys returns every recognised setting key, sorted.
	Keys() []string

	// Validate checks that the settings needed for a run are present.
	Validate(settings *domain.Settings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
