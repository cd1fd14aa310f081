package driven

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// ModelFetcher retrieves an externally hosted model document.
type ModelFetcher interface {
	// Fetch downloads and parses the model at uri.
	Fetch(ctx context.Context, uri string) (*domain.Document, error)
}
