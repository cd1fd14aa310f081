package services

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// Ensure ResolverService implements the interface.
var _ driving.ResolverService = (*ResolverService)(nil)

// ResolverService resolves local names in model documents.
//
// It holds configuration only. Symbol tables and import indexes are built
// per call from the documents supplied to that call.
type ResolverService struct {
	workers         int
	systemNamespace string
	systemTypes     []string
}

// ResolverOption configures a ResolverService.
type ResolverOption func(*ResolverService)

// WithWorkers sets how many documents ResolveLocalNamesForAll resolves
// concurrently. Values below 1 mean one.
func WithWorkers(n int) ResolverOption {
	return func(s *ResolverService) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithSystemTypes makes names resolve into namespace when neither a local
// declaration nor an import provides them.
func WithSystemTypes(namespace string, names ...string) ResolverOption {
	return func(s *ResolverService) {
		s.systemNamespace = namespace
		s.systemTypes = append([]string(nil), names...)
	}
}

// NewResolverService creates a resolver. By default it uses one worker per
// CPU and no system types.
func NewResolverService(opts ...ResolverOption) *ResolverService {
	s := &ResolverService{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewResolverServiceFromSettings creates a resolver configured from settings.
func NewResolverServiceFromSettings(settings domain.ResolverSettings) *ResolverService {
	return NewResolverService(
		WithWorkers(settings.Workers),
		WithSystemTypes(settings.SystemNamespace, settings.SystemTypes...),
	)
}

// ResolveLocalNames resolves target against peers.
func (s *ResolverService) ResolveLocalNames(
	ctx context.Context,
	peers []*domain.Document,
	target *domain.Document,
) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: no target document", domain.ErrInvalidInput)
	}
	return s.resolveDocument(newPeerTables(peers), target)
}

// ResolveLocalNamesForAll resolves every document against the whole set.
// The first failure, in document order, is returned and no documents are.
func (s *ResolverService) ResolveLocalNamesForAll(
	ctx context.Context,
	models *domain.Models,
) (*domain.Models, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if models == nil {
		return nil, fmt.Errorf("%w: no models", domain.ErrInvalidInput)
	}

	docs := models.Models
	logger.Section("Resolve")
	logger.Info("Resolving %d documents", len(docs))

	if len(docs) == 0 {
		return models.WithModels(nil), nil
	}

	peers := newPeerTables(docs)
	resolved := make([]*domain.Document, len(docs))
	errs := make([]error, len(docs))

	// firstFailed is the lowest index that failed so far; documents after
	// it are skipped.
	var mu sync.Mutex
	firstFailed := len(docs)
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return i > firstFailed
	}
	fail := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		if i < firstFailed {
			firstFailed = i
		}
	}

	jobs := make(chan int, len(docs))
	for i := range docs {
		jobs <- i
	}
	close(jobs)

	workers := s.workers
	if workers > len(docs) {
		workers = len(docs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if skip(i) {
					continue
				}
				if err := ctx.Err(); err != nil {
					errs[i] = err
					fail(i)
					continue
				}
				resolved[i], errs[i] = s.resolveDocument(peers, docs[i])
				if errs[i] != nil {
					fail(i)
				}
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return models.WithModels(resolved), nil
}

// ImportFullyQualifiedNames expands a raw import node.
func (s *ResolverService) ImportFullyQualifiedNames(node *domain.Object) ([]string, error) {
	return ImportFullyQualifiedNames(node)
}

// ExternalImports maps externally hosted import names to their uri.
func (s *ResolverService) ExternalImports(doc *domain.Document) map[string]string {
	return ExternalImports(doc)
}

// resolveDocument builds the symbol table and import index of target and
// rewrites it.
func (s *ResolverService) resolveDocument(peers peerTables, target *domain.Document) (*domain.Document, error) {
	locals := NewSymbolTable(target)
	if target.Namespace == "" && locals.Len() > 0 {
		return nil, fmt.Errorf("%w: document declaring %v has no namespace", domain.ErrInvalidModel, target.DeclarationNames())
	}

	imports, err := newImportIndex(target, peers)
	if err != nil {
		return nil, err
	}

	logger.Debug("resolving %s: %d declarations, %d imports", target.Namespace, locals.Len(), imports.Len())
	defer logger.Timer("resolve " + target.Namespace)()

	w := &rewriter{
		resolver: &referenceResolver{
			locals:  locals,
			imports: imports,
			system:  newSystemTypes(s.systemNamespace, s.systemTypes),
		},
	}
	return w.rewriteDocument(target)
}
