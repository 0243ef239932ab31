package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrUnrecognizedFormat", ErrUnrecognizedFormat},
		{"ErrInvalidRef", ErrInvalidRef},
		{"ErrRegistryFetch", ErrRegistryFetch},
		{"ErrCorpusScan", ErrCorpusScan},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrRegistryWrite", ErrRegistryWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestParseError(t *testing.T) {
	err := error(&ParseError{Input: "Miscellaneous Filing", Reason: ReasonUnrecognizedFormat})

	assert.Contains(t, err.Error(), "Miscellaneous Filing")
	assert.Contains(t, err.Error(), "UnrecognizedFormat")
	assert.True(t, errors.Is(err, ErrUnrecognizedFormat))

	wrapped := fmt.Errorf("record rec1: %w", err)
	pe, ok := IsParseError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ReasonUnrecognizedFormat, pe.Reason)

	_, ok = IsParseError(ErrNotFound)
	assert.False(t, ok)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("%w: timeout", ErrRegistryFetch)))
	assert.True(t, IsFatal(fmt.Errorf("%w: permission denied", ErrCorpusScan)))
	assert.True(t, IsFatal(ErrNotConfigured))
	assert.False(t, IsFatal(ErrUnrecognizedFormat))
	assert.False(t, IsFatal(&ParseError{Input: "x", Reason: ReasonMissingNumber}))
}
