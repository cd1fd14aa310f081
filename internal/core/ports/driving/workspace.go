package driving

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// WorkspaceService manages a set of stored models and resolution runs.
type WorkspaceService interface {
	// Load reads every model found under paths and stores it.
	// Returns the namespaces loaded, in order.
	Load(ctx context.Context, paths []string) ([]string, error)

	// Add stores documents directly.
	Add(ctx context.Context, docs ...*domain.Document) error

	// Remove deletes a stored namespace.
	Remove(ctx context.Context, namespace string) error

	// Namespaces lists stored namespaces.
	Namespaces(ctx context.Context) ([]string, error)

	// Get returns a stored document.
	Get(ctx context.Context, namespace string) (*domain.Document, error)

	// FetchExternal downloads externally hosted namespaces referenced by
	// stored documents. Returns the namespaces fetched.
	FetchExternal(ctx context.Context) ([]string, error)

	// ResolveAll resolves every stored document and records the run.
	// The run is returned even when resolution fails.
	ResolveAll(ctx context.Context) (*domain.Run, error)

	// Resolve resolves one stored namespace against all stored documents
	// and records the run.
	Resolve(ctx context.Context, namespace string) (*domain.Run, error)

	// ResolveModels stores models and resolves exactly that set, keeping
	// its order, and records the run. Other stored documents are not
	// peers. A non-empty target resolves only that namespace.
	ResolveModels(ctx context.Context, models *domain.Models, target string) (*domain.Run, error)

	// Runs lists recorded runs, newest first.
	Runs(ctx context.Context) ([]domain.Run, error)

	// Run returns a recorded run.
	Run(ctx context.Context, id string) (*domain.Run, error)
}
