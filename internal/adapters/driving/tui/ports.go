// Package tui provides an interactive terminal browser for the model
// workspace. It is a driving adapter in the hexagonal layout.
package tui

import (
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Workspace lists stored namespaces and runs and resolves them.
	Workspace driving.WorkspaceService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	return nil
}
