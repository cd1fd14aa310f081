package mcp

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// mockResolverService is a mock implementation of driving.ResolverService.
type mockResolverService struct {
	err error
}

func (m *mockResolverService) ResolveLocalNames(
	_ context.Context,
	_ []*domain.Document,
	target *domain.Document,
) (*domain.Document, error) {
	return target, m.err
}

func (m *mockResolverService) ResolveLocalNamesForAll(_ context.Context, models *domain.Models) (*domain.Models, error) {
	return models, m.err
}

func (m *mockResolverService) ImportFullyQualifiedNames(_ *domain.Object) ([]string, error) {
	return nil, m.err
}

func (m *mockResolverService) ExternalImports(_ *domain.Document) map[string]string {
	return nil
}

// mockWorkspaceService is a mock implementation of driving.WorkspaceService.
type mockWorkspaceService struct {
	docs map[string]*domain.Document
	err  error
}

func (m *mockWorkspaceService) Load(_ context.Context, _ []string) ([]string, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) Add(_ context.Context, _ ...*domain.Document) error {
	return m.err
}

func (m *mockWorkspaceService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockWorkspaceService) Namespaces(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for ns := range m.docs {
		out = append(out, ns)
	}
	return out, nil
}

func (m *mockWorkspaceService) Get(_ context.Context, namespace string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[namespace]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockWorkspaceService) FetchExternal(_ context.Context) ([]string, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) ResolveAll(_ context.Context) (*domain.Run, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) Resolve(_ context.Context, _ string) (*domain.Run, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) ResolveModels(_ context.Context, _ *domain.Models, _ string) (*domain.Run, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) Runs(_ context.Context) ([]domain.Run, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) Run(_ context.Context, _ string) (*domain.Run, error) {
	return nil, m.err
}
