// Package mcp provides an MCP (Model Context Protocol) server adapter for
// metaresolve. It lets AI assistants resolve model documents and read the
// models stored in the local workspace.
package mcp

import "errors"

// ErrMissingResolverService is returned when the resolver service is not provided.
var ErrMissingResolverService = errors.New("mcp: resolver service is required")

// ErrTargetNotInModels is returned when the requested target namespace is
// not among the supplied documents.
var ErrTargetNotInModels = errors.New("mcp: target namespace not in models")
