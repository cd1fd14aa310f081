package mcp

import (
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Resolver resolves model documents passed in tool calls.
	Resolver driving.ResolverService

	// Workspace exposes stored models as resources. Optional.
	Workspace driving.WorkspaceService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Resolver == nil {
		return ErrMissingResolverService
	}
	return nil
}
