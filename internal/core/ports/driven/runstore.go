package driven

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// RunStore persists resolution runs.
type RunStore interface {
	// Save stores a run.
	Save(ctx context.Context, run *domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns runs, newest first.
	List(ctx context.Context) ([]domain.Run, error)
}
