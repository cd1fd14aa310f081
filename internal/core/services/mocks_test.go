package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
)

// Compile-time checks.
var (
	_ driven.ModelSource  = (*mockModelSource)(nil)
	_ driven.ModelFetcher = (*mockModelFetcher)(nil)
	_ driven.RunStore     = (*failingRunStore)(nil)
)

// mockModelSource serves documents keyed by path.
type mockModelSource struct {
	docs    map[string][]*domain.Document
	loadErr error
	changes chan domain.ModelChange
}

func newMockModelSource() *mockModelSource {
	return &mockModelSource{docs: make(map[string][]*domain.Document)}
}

func (m *mockModelSource) Load(_ context.Context, path string) ([]*domain.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	docs, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return docs, nil
}

func (m *mockModelSource) Watch(_ context.Context, _ string) (<-chan domain.ModelChange, error) {
	if m.changes == nil {
		return nil, errors.New("watch not supported")
	}
	return m.changes, nil
}

// mockModelFetcher serves documents keyed by uri and records requests.
type mockModelFetcher struct {
	mu      sync.Mutex
	docs    map[string]*domain.Document
	fetched []string
}

func newMockModelFetcher() *mockModelFetcher {
	return &mockModelFetcher{docs: make(map[string]*domain.Document)}
}

func (m *mockModelFetcher) Fetch(_ context.Context, uri string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, uri)
	doc, ok := m.docs[uri]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// failingRunStore rejects every write.
type failingRunStore struct{}

func (failingRunStore) Save(_ context.Context, _ *domain.Run) error {
	return errors.New("disk full")
}

func (failingRunStore) Get(_ context.Context, _ string) (*domain.Run, error) {
	return nil, domain.ErrNotFound
}

func (failingRunStore) List(_ context.Context) ([]domain.Run, error) {
	return nil, nil
}
