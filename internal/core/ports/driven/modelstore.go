package driven

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// ModelStore persists model documents keyed by namespace.
type ModelStore interface {
	// Save stores or replaces the document for its namespace.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by namespace.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, namespace string) (*domain.Document, error)

	// List returns all documents ordered by namespace.
	List(ctx context.Context) ([]*domain.Document, error)

	// Delete removes a document. Deleting a missing namespace is not an error.
	Delete(ctx context.Context, namespace string) error
}
