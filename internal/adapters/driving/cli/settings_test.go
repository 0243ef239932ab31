package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "patABCDEFGH.1234567890abcdef",
			expected: "patA...cdef",
		},
		{
			name:     "GitHub token",
			input:    "ghp_1234567890abcdefghijklmnop",
			expected: "ghp_...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMaskSecret_NotSet(t *testing.T) {
	assert.Equal(t, "(not set)", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
}

func TestSettingsShow(t *testing.T) {
	svc := newMockSettingsService()
	svc.settings.Registry.BaseID = "appXYZ"
	svc.settings.Registry.Table = "Legislation"
	svc.settings.Registry.Token = "patABCDEFGH.1234567890abcdef"
	withServices(t, nil, nil, svc)

	out, err := executeCommand(t, nil, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[Registry]")
	assert.Contains(t, out, "Base: appXYZ")
	assert.Contains(t, out, "Token: patA...cdef")
	assert.NotContains(t, out, "1234567890")
	assert.Contains(t, out, "[Corpus]")
	assert.Contains(t, out, "[Output]")
	assert.Contains(t, out, "Graph: _data/relationships.json")
	assert.Contains(t, out, "[Policy]")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_Warning(t *testing.T) {
	svc := newMockSettingsService()
	svc.validateErr = fmt.Errorf("%w: registry.base_id", domain.ErrNotConfigured)
	withServices(t, nil, nil, svc)

	out, err := executeCommand(t, nil, "settings")
	require.NoError(t, err)

	assert.Contains(t, out, "Base: (not set)")
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "registry.base_id")
}

func TestSettingsShow_GitHubSource(t *testing.T) {
	svc := newMockSettingsService()
	svc.settings.Corpus.Source = domain.CorpusSourceGitHub
	svc.settings.Corpus.GitHubRepo = "city/code"
	withServices(t, nil, nil, svc)

	out, err := executeCommand(t, nil, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Repository: city/code")
	assert.NotContains(t, out, "Root:")
}

func TestSettingsShow_GetError(t *testing.T) {
	svc := newMockSettingsService()
	svc.getErr = errors.New("corrupt config")
	withServices(t, nil, nil, svc)

	_, err := executeCommand(t, nil, "settings", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings")
}

func TestSettingsSet(t *testing.T) {
	svc := newMockSettingsService()
	withServices(t, nil, nil, svc)

	out, err := executeCommand(t, nil, "settings", "set", "registry.base_id", "appXYZ")
	require.NoError(t, err)

	assert.Equal(t, "appXYZ", svc.set["registry.base_id"])
	assert.Contains(t, out, "Set registry.base_id = appXYZ")
}

func TestSettingsSet_MasksTokens(t *testing.T) {
	svc := newMockSettingsService()
	withServices(t, nil, nil, svc)

	out, err := executeCommand(t, nil, "settings", "set", "registry.token", "patABCDEFGH.1234567890abcdef")
	require.NoError(t, err)

	assert.Equal(t, "patABCDEFGH.1234567890abcdef", svc.set["registry.token"])
	assert.Contains(t, out, "Set registry.token = patA...cdef")
}

func TestSettingsSet_Rejected(t *testing.T) {
	svc := newMockSettingsService()
	svc.setErr = fmt.Errorf("%w: unknown setting", domain.ErrInvalidInput)
	withServices(t, nil, nil, svc)

	_, err := executeCommand(t, nil, "settings", "set", "nope", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	withServices(t, nil, nil, newMockSettingsService())

	_, err := executeCommand(t, nil, "settings", "set", "registry.base_id")
	assert.Error(t, err)
}

func TestSettingsKeys(t *testing.T) {
	withServices(t, nil, nil, newMockSettingsService())

	out, err := executeCommand(t, nil, "settings", "keys")
	require.NoError(t, err)
	assert.Equal(t, "corpus.root\nregistry.base_id\nregistry.token\n", out)
}

func TestSettings_NoService(t *testing.T) {
	withServices(t, nil, nil, nil)

	_, err := executeCommand(t, nil, "settings", "keys")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
