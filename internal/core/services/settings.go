package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyRegistryBaseURL   = "registry.base_url"
	keyRegistryBaseID    = "registry.base_id"
	keyRegistryTable     = "registry.table"
	keyRegistryView      = "registry.view"
	keyRegistryIDField   = "registry.identifier_field"
	keyRegistryPathField = "registry.path_field"
	keyRegistryToken     = "registry.token"
	keyRegistryDelayMS   = "registry.request_delay_ms"
	keyRegistryAttempts  = "registry.max_attempts"
	keyRegistryTimeout   = "registry.timeout_seconds"

	keyCorpusSource          = "corpus.source"
	keyCorpusRoot            = "corpus.root"
	keyCorpusGitHubRepo      = "corpus.github_repo"
	keyCorpusGitHubRef       = "corpus.github_ref"
	keyCorpusGitHubToken     = "corpus.github_token"
	keyCorpusInclude         = "corpus.include"
	keyCorpusOrdinances      = "corpus.ordinances"
	keyCorpusResolutions     = "corpus.resolutions"
	keyCorpusInterpretations = "corpus.interpretations"

	keyOutputGraph   = "output.graph"
	keyOutputReport  = "output.report"
	keyOutputDataDir = "output.data_dir"

	keyPolicyYearPivot = "policy.two_digit_year_pivot"
)

// Environment overrides for secrets.
//
//nolint:gosec // G101: These are environment variable names.
const (
	EnvRegistryToken = "LEXSYNC_REGISTRY_TOKEN"
	EnvGitHubToken   = "LEXSYNC_GITHUB_TOKEN"
)

var intKeys = map[string]struct{}{
	keyRegistryDelayMS:  {},
	keyRegistryAttempts: {},
	keyRegistryTimeout:  {},
	keyPolicyYearPivot:  {},
}

var allKeys = []string{
	keyRegistryBaseURL, keyRegistryBaseID, keyRegistryTable, keyRegistryView,
	keyRegistryIDField, keyRegistryPathField, keyRegistryToken,
	keyRegistryDelayMS, keyRegistryAttempts, keyRegistryTimeout,
	keyCorpusSource, keyCorpusRoot, keyCorpusGitHubRepo, keyCorpusGitHubRef,
	keyCorpusGitHubToken, keyCorpusInclude,
	keyCorpusOrdinances, keyCorpusResolutions, keyCorpusInterpretations,
	keyOutputGraph, keyOutputReport, keyOutputDataDir,
	keyPolicyYearPivot,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	source := domain.CorpusSourceType(s.getString(keyCorpusSource, d.Corpus.Source.String()))
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: %s = %q", domain.ErrInvalidInput, keyCorpusSource, source)
	}

	settings := &domain.Settings{
		Registry: domain.RegistrySettings{
			BaseURL:         s.getString(keyRegistryBaseURL, d.Registry.BaseURL),
			BaseID:          s.configStore.GetString(keyRegistryBaseID),
			Table:           s.configStore.GetString(keyRegistryTable),
			View:            s.configStore.GetString(keyRegistryView),
			IdentifierField: s.getString(keyRegistryIDField, d.Registry.IdentifierField),
			PathField:       s.getString(keyRegistryPathField, d.Registry.PathField),
			Token:           s.secret(EnvRegistryToken, keyRegistryToken),
			RequestDelay:    s.getDuration(keyRegistryDelayMS, time.Millisecond, d.Registry.RequestDelay),
			MaxAttempts:     s.getInt(keyRegistryAttempts, d.Registry.MaxAttempts),
			Timeout:         s.getDuration(keyRegistryTimeout, time.Second, d.Registry.Timeout),
		},
		Corpus: domain.CorpusSettings{
			Source:      source,
			Root:        s.getString(keyCorpusRoot, d.Corpus.Root),
			GitHubRepo:  s.configStore.GetString(keyCorpusGitHubRepo),
			GitHubRef:   s.getString(keyCorpusGitHubRef, d.Corpus.GitHubRef),
			GitHubToken: s.secret(EnvGitHubToken, keyCorpusGitHubToken),
			Include:     s.getStrings(keyCorpusInclude, d.Corpus.Include),
			Directories: []domain.CorpusDirectory{
				{Path: s.getString(keyCorpusOrdinances, "_ordinances"), Kind: domain.KindOrdinance},
				{Path: s.getString(keyCorpusResolutions, "_resolutions"), Kind: domain.KindResolution},
				{Path: s.getString(keyCorpusInterpretations, "_interpretations"), Kind: domain.KindInterpretation},
			},
		},
		Output: domain.OutputSettings{
			GraphPath:  s.getString(keyOutputGraph, d.Output.GraphPath),
			ReportPath: s.getString(keyOutputReport, d.Output.ReportPath),
			DataDir:    s.configStore.GetString(keyOutputDataDir),
		},
		Policy: domain.PolicySettings{
			TwoDigitYearPivot: s.getInt(keyPolicyYearPivot, d.Policy.TwoDigitYearPivot),
		},
	}

	return settings, nil
}

// Set stores one setting, converting integer and list keys.
func (s *SettingsService) Set(key, value string) error {
	if !knownKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch {
	case isIntKey(key):
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case key == keyCorpusInclude:
		return s.configStore.Set(key, splitList(value))
	case key == keyCorpusSource:
		if !domain.CorpusSourceType(value).IsValid() {
			return fmt.Errorf("%w: corpus source must be filesystem or github", domain.ErrInvalidInput)
		}
	}
	return s.configStore.Set(key, value)
}

// Keys returns every recognised setting key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(allKeys))
	copy(keys, allKeys)
	sort.Strings(keys)
	return keys
}

// Validate checks that the settings needed for a run are present.
func (s *SettingsService) Validate(settings *domain.Settings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}

	var missing []string
	if settings.Registry.BaseURL == "" {
		missing = append(missing, keyRegistryBaseURL)
	}
	if settings.Registry.BaseID == "" {
		missing = append(missing, keyRegistryBaseID)
	}
	if settings.Registry.Table == "" {
		missing = append(missing, keyRegistryTable)
	}
	if settings.Corpus.Source == domain.CorpusSourceGitHub && settings.Corpus.GitHubRepo == "" {
		missing = append(missing, keyCorpusGitHubRepo)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotConfigured, strings.Join(missing, ", "))
	}

	if settings.Registry.Token == "" {
		return fmt.Errorf("%w: set %s or %s", domain.ErrAuthRequired, keyRegistryToken, EnvRegistryToken)
	}
	if settings.Registry.MaxAttempts < 1 {
		return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, keyRegistryAttempts)
	}
	if _, err := settings.Conventions(); err != nil {
		return err
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getDuration(key string, unit, fallback time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return time.Duration(s.configStore.GetInt(key)) * unit
}

func (s *SettingsService) getStrings(key string, fallback []string) []string {
	if v := s.configStore.GetStringSlice(key); len(v) > 0 {
		return v
	}
	if v := s.configStore.GetString(key); v != "" {
		return splitList(v)
	}
	return fallback
}

// secret prefers the environment over the config file.
func (s *SettingsService) secret(env, key string) string {
	if v := s.getenv(env); v != "" {
		return v
	}
	return s.configStore.GetString(key)
}

func knownKey(key string) bool {
	for _, k := range allKeys {
		if k == key {
			return true
		}
	}
	return false
}

func isIntKey(key string) bool {
	_, ok := intKeys[key]
	return ok
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
