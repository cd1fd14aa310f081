package driven

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// ModelSource reads model documents from local files.
type ModelSource interface {
	// Load reads every model document found under path. A directory is
	// scanned for *.json files; a file may hold a Models wrapper or a
	// single Model.
	Load(ctx context.Context, path string) ([]*domain.Document, error)

	// Watch emits a change whenever a model file under path is created,
	// written, removed or renamed. The channel closes when ctx is done.
	Watch(ctx context.Context, path string) (<-chan domain.ModelChange, error)
}
