package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)
}

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "port flag should exist")
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_DescribesTools(t *testing.T) {
	for _, tool := range []string{"resolve_models", "expand_import", "external_imports"} {
		assert.Contains(t, mcpServeCmd.Long, tool)
	}
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	bootstrap, current = nil, nil

	_, _, err := execute(t, "mcp", "serve")

	assert.EqualError(t, err, "services not configured")
}
