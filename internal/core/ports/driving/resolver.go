package driving

import (
	"context"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// ResolverService rewrites locally-written type references into fully
// qualified names.
type ResolverService interface {
	// ResolveLocalNames resolves target against peers. Peers may or may not
	// contain target itself.
	ResolveLocalNames(ctx context.Context, peers []*domain.Document, target *domain.Document) (*domain.Document, error)

	// ResolveLocalNamesForAll resolves every document of models against the
	// whole set, preserving document order.
	ResolveLocalNamesForAll(ctx context.Context, models *domain.Models) (*domain.Models, error)

	// ImportFullyQualifiedNames expands a raw import node into the fully
	// qualified names or patterns ("ns.*") it makes available.
	ImportFullyQualifiedNames(node *domain.Object) ([]string, error)

	// ExternalImports maps each expanded name of every import carrying a uri
	// to that uri.
	ExternalImports(doc *domain.Document) map[string]string
}
