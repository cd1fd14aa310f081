package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
)

// Ensure ModelStore implements the interface.
var _ driven.ModelStore = (*ModelStore)(nil)

// ModelStore is an in-memory implementation of driven.ModelStore.
// Documents are cloned on the way in and out.
type ModelStore struct {
	mu     sync.RWMutex
	models map[string]*domain.Document
}

// NewModelStore creates a new in-memory model store.
func NewModelStore() *ModelStore {
	return &ModelStore{
		models: make(map[string]*domain.Document),
	}
}

// Save stores or replaces the document for its namespace.
func (s *ModelStore) Save(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.Namespace == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[doc.Namespace] = doc.Clone()
	return nil
}

// Get retrieves a document by namespace.
func (s *ModelStore) Get(_ context.Context, namespace string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.models[namespace]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

// List returns all documents ordered by namespace.
func (s *ModelStore) List(_ context.Context) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	namespaces := make([]string, 0, len(s.models))
	for ns := range s.models {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	result := make([]*domain.Document, 0, len(namespaces))
	for _, ns := range namespaces {
		result = append(result, s.models[ns].Clone())
	}
	return result, nil
}

// Delete removes a document.
func (s *ModelStore) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, namespace)
	return nil
}
