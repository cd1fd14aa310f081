package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil resolver service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingResolverService)
	})

	t.Run("nil ports returns error", func(t *testing.T) {
		_, err := NewServer(nil)
		assert.ErrorIs(t, err, ErrMissingResolverService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Resolver: &mockResolverService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("resolver only is valid", func(t *testing.T) {
		ports := &Ports{Resolver: &mockResolverService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Resolver:  &mockResolverService{},
			Workspace: &mockWorkspaceService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("workspace without resolver is invalid", func(t *testing.T) {
		ports := &Ports{Workspace: &mockWorkspaceService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingResolverService)
	})
}
