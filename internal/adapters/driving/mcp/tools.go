package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// ResolveInput is the input schema for the resolve_models tool.
type ResolveInput struct {
	Models string `json:"models" jsonschema:"a Models document or a single Model document, as JSON text"`
	Target string `json:"target,omitempty" jsonschema:"namespace to resolve on its own against the others (default: all)"`
}

// ResolveOutput is the output schema for the resolve_models tool.
type ResolveOutput struct {
	Resolved   string   `json:"resolved"`
	Namespaces []string `json:"namespaces"`
}

// ExpandImportInput is the input schema for the expand_import tool.
type ExpandImportInput struct {
	Import string `json:"import" jsonschema:"an ImportAll, ImportType or ImportTypes node, as JSON text"`
}

// ExpandImportOutput is the output schema for the expand_import tool.
type ExpandImportOutput struct {
	Names []string `json:"names"`
}

// ExternalImportsInput is the input schema for the external_imports tool.
type ExternalImportsInput struct {
	Model string `json:"model" jsonschema:"a Model or Models document, as JSON text"`
}

// ExternalImportsOutput is the output schema for the external_imports tool.
type ExternalImportsOutput struct {
	Imports map[string]string `json:"imports"`
	URIs    []string          `json:"uris"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_models",
		Description: "Rewrite local type names in model documents into fully qualified names",
	}, s.handleResolve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand_import",
		Description: "List the fully qualified names an import makes available",
	}, s.handleExpandImport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "external_imports",
		Description: "Map every name imported from an external uri to that uri",
	}, s.handleExternalImports)
}

// handleResolve handles the resolve_models tool invocation.
func (s *Server) handleResolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (*mcp.CallToolResult, ResolveOutput, error) {
	models, err := domain.DecodeModels([]byte(input.Models))
	if err != nil {
		return nil, ResolveOutput{}, fmt.Errorf("decoding models: %w", err)
	}

	var resolved *domain.Models
	if input.Target == "" {
		resolved, err = s.ports.Resolver.ResolveLocalNamesForAll(ctx, models)
	} else {
		resolved, err = s.resolveTarget(ctx, models, input.Target)
	}
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	data, err := resolved.MarshalJSON()
	if err != nil {
		return nil, ResolveOutput{}, fmt.Errorf("encoding resolved models: %w", err)
	}
	return nil, ResolveOutput{
		Resolved:   string(data),
		Namespaces: resolved.Namespaces(),
	}, nil
}

func (s *Server) resolveTarget(ctx context.Context, models *domain.Models, target string) (*domain.Models, error) {
	for _, doc := range models.Models {
		if doc.Namespace != target {
			continue
		}
		resolved, err := s.ports.Resolver.ResolveLocalNames(ctx, models.Models, doc)
		if err != nil {
			return nil, err
		}
		return models.WithModels([]*domain.Document{resolved}), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTargetNotInModels, target)
}

// handleExpandImport handles the expand_import tool invocation.
func (s *Server) handleExpandImport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExpandImportInput,
) (*mcp.CallToolResult, ExpandImportOutput, error) {
	node, err := domain.ParseObject([]byte(input.Import))
	if err != nil {
		return nil, ExpandImportOutput{}, fmt.Errorf("decoding import: %w", err)
	}

	names, err := s.ports.Resolver.ImportFullyQualifiedNames(node)
	if err != nil {
		return nil, ExpandImportOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, ExpandImportOutput{Names: names}, nil
}

// handleExternalImports handles the external_imports tool invocation.
// With several documents, a name imported by a later one wins.
func (s *Server) handleExternalImports(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExternalImportsInput,
) (*mcp.CallToolResult, ExternalImportsOutput, error) {
	models, err := domain.DecodeModels([]byte(input.Model))
	if err != nil {
		return nil, ExternalImportsOutput{}, fmt.Errorf("decoding model: %w", err)
	}

	output := ExternalImportsOutput{Imports: map[string]string{}, URIs: []string{}}
	seen := make(map[string]bool)
	for _, doc := range models.Models {
		for name, uri := range s.ports.Resolver.ExternalImports(doc) {
			output.Imports[name] = uri
		}
	}
	for _, uri := range output.Imports {
		if !seen[uri] {
			seen[uri] = true
			output.URIs = append(output.URIs, uri)
		}
	}
	sort.Strings(output.URIs)
	return nil, output, nil
}
