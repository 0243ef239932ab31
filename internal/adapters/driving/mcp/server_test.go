package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil reconcile service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingReconcileService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Reconcile: newMockReconcileService(nil),
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil reconcile service returns error", func(t *testing.T) {
		ports := &Ports{Graph: &mockGraphSource{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingReconcileService)
	})

	t.Run("reconcile only is valid", func(t *testing.T) {
		ports := &Ports{Reconcile: newMockReconcileService(nil)}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Reconcile: newMockReconcileService(nil),
			Graph:     &mockGraphSource{graph: testGraph()},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
