package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for metaresolve resources.
	uriScheme = "metaresolve://"

	jsonMIMEType = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "namespaces",
		Name:        "namespaces",
		Description: "Namespaces of the models stored in the workspace",
		MIMEType:    jsonMIMEType,
	}, s.handleNamespacesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "models/{namespace}",
		Name:        "model",
		Description: "A stored model document",
		MIMEType:    jsonMIMEType,
	}, s.handleModelResource)
}

// handleNamespacesResource lists stored namespaces. Without a workspace the
// list is empty.
func (s *Server) handleNamespacesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	namespaces := []string{}
	if s.ports.Workspace != nil {
		stored, err := s.ports.Workspace.Namespaces(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing namespaces: %w", err)
		}
		namespaces = append(namespaces, stored...)
	}

	data, err := json.MarshalIndent(namespaces, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling namespaces: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleModelResource returns a stored model document as JSON.
func (s *Server) handleModelResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Workspace == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	namespace := extractNamespace(req.Params.URI)
	if namespace == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Workspace.Get(ctx, namespace)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting model: %w", err)
	}

	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshalling model: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     string(data),
		}},
	}
}

// extractNamespace extracts the namespace from a URI like
// metaresolve://models/{namespace}.
func extractNamespace(uri string) string {
	const prefix = uriScheme + "models/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	namespace := strings.TrimPrefix(uri, prefix)
	if strings.Contains(namespace, "/") {
		return ""
	}
	return namespace
}
