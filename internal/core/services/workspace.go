package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// Ensure WorkspaceService implements the interface.
var _ driving.WorkspaceService = (*WorkspaceService)(nil)

// WorkspaceService resolves stored models and records each run.
type WorkspaceService struct {
	resolver driving.ResolverService
	models   driven.ModelStore
	runs     driven.RunStore
	source   driven.ModelSource
	fetcher  driven.ModelFetcher
	now      func() time.Time
}

// NewWorkspaceService creates a new workspace service.
// source and fetcher are optional.
func NewWorkspaceService(
	resolver driving.ResolverService,
	models driven.ModelStore,
	runs driven.RunStore,
	source driven.ModelSource,
	fetcher driven.ModelFetcher,
) *WorkspaceService {
	return &WorkspaceService{
		resolver: resolver,
		models:   models,
		runs:     runs,
		source:   source,
		fetcher:  fetcher,
		now:      time.Now,
	}
}

// Load reads every model under paths into the model store. A namespace
// found twice in one load keeps its first document, as in a resolution
// peer set.
func (s *WorkspaceService) Load(ctx context.Context, paths []string) ([]string, error) {
	if s.source == nil {
		return nil, fmt.Errorf("load models: model source %w", domain.ErrNotConfigured)
	}

	var loaded []string
	seen := make(map[string]bool)
	for _, path := range paths {
		docs, err := s.source.Load(ctx, path)
		if err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		docs = firstByNamespace(docs, seen)
		if err := s.Add(ctx, docs...); err != nil {
			return loaded, err
		}
		for _, doc := range docs {
			loaded = append(loaded, doc.Namespace)
		}
		logger.Debug("loaded %d documents from %s", len(docs), path)
	}
	return loaded, nil
}

// firstByNamespace drops documents whose namespace is already in seen and
// records the rest.
func firstByNamespace(docs []*domain.Document, seen map[string]bool) []*domain.Document {
	kept := make([]*domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			kept = append(kept, doc)
			continue
		}
		if seen[doc.Namespace] {
			logger.Warn("namespace %s appears more than once, using the first", doc.Namespace)
			continue
		}
		seen[doc.Namespace] = true
		kept = append(kept, doc)
	}
	return kept
}

// Add stores documents directly.
func (s *WorkspaceService) Add(ctx context.Context, docs ...*domain.Document) error {
	for _, doc := range docs {
		if doc == nil || doc.Namespace == "" {
			return fmt.Errorf("%w: document has no namespace", domain.ErrInvalidModel)
		}
		if err := s.models.Save(ctx, doc); err != nil {
			return fmt.Errorf("save %s: %w", doc.Namespace, err)
		}
	}
	return nil
}

// Remove deletes a stored namespace.
func (s *WorkspaceService) Remove(ctx context.Context, namespace string) error {
	if _, err := s.models.Get(ctx, namespace); err != nil {
		return fmt.Errorf("get %s: %w", namespace, err)
	}
	return s.models.Delete(ctx, namespace)
}

// Namespaces lists stored namespaces.
func (s *WorkspaceService) Namespaces(ctx context.Context) ([]string, error) {
	docs, err := s.models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	namespaces := make([]string, len(docs))
	for i, doc := range docs {
		namespaces[i] = doc.Namespace
	}
	return namespaces, nil
}

// Get returns a stored document.
func (s *WorkspaceService) Get(ctx context.Context, namespace string) (*domain.Document, error) {
	return s.models.Get(ctx, namespace)
}

// FetchExternal downloads every externally hosted namespace that stored
// documents import and that is not stored yet. Fetched documents are
// scanned too, until no new uri appears.
func (s *WorkspaceService) FetchExternal(ctx context.Context) ([]string, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("fetch external models: fetcher %w", domain.ErrNotConfigured)
	}

	var fetched []string
	tried := make(map[string]bool)

	for {
		docs, err := s.models.List(ctx)
		if err != nil {
			return fetched, fmt.Errorf("list models: %w", err)
		}

		pending := pendingExternalURIs(docs, tried)
		if len(pending) == 0 {
			return fetched, nil
		}

		for _, uri := range pending {
			tried[uri] = true
			logger.Info("Fetching %s", uri)

			doc, err := s.fetcher.Fetch(ctx, uri)
			if err != nil {
				return fetched, fmt.Errorf("fetch %s: %w", uri, err)
			}
			if err := s.Add(ctx, doc); err != nil {
				return fetched, err
			}
			fetched = append(fetched, doc.Namespace)
		}
	}
}

// pendingExternalURIs returns, sorted, the uris of external imports whose
// namespace is not among docs and that were not tried before.
func pendingExternalURIs(docs []*domain.Document, tried map[string]bool) []string {
	stored := make(map[string]bool, len(docs))
	for _, doc := range docs {
		stored[doc.Namespace] = true
	}

	seen := make(map[string]bool)
	var pending []string
	for _, doc := range docs {
		for name, uri := range ExternalImports(doc) {
			if stored[namespaceOf(name)] || tried[uri] || seen[uri] {
				continue
			}
			seen[uri] = true
			pending = append(pending, uri)
		}
	}
	sort.Strings(pending)
	return pending
}

// namespaceOf strips the simple name or wildcard from an expanded import.
func namespaceOf(name string) string {
	if i := strings.LastIndex(name, namespaceSeparator); i >= 0 {
		return name[:i]
	}
	return name
}

// ResolveAll resolves every stored document and records the run.
func (s *WorkspaceService) ResolveAll(ctx context.Context) (*domain.Run, error) {
	docs, err := s.models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	models := domain.NewModels(docs...)
	run := s.startRun("", models.Namespaces())

	resolved, resolveErr := s.resolver.ResolveLocalNamesForAll(ctx, models)
	return s.finishRun(ctx, run, resolved, resolveErr)
}

// Resolve resolves one stored namespace against every stored document and
// records the run.
func (s *WorkspaceService) Resolve(ctx context.Context, namespace string) (*domain.Run, error) {
	if _, err := s.models.Get(ctx, namespace); err != nil {
		return nil, fmt.Errorf("get %s: %w", namespace, err)
	}
	peers, err := s.models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return s.resolveTarget(ctx, peers, namespace)
}

// ResolveModels stores models and resolves exactly that set, in its order,
// recording the run. Other stored documents take no part. A non-empty
// target resolves only that namespace against the set.
func (s *WorkspaceService) ResolveModels(ctx context.Context, models *domain.Models, target string) (*domain.Run, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: models are required", domain.ErrInvalidInput)
	}
	docs := firstByNamespace(models.Models, make(map[string]bool))
	if err := s.Add(ctx, docs...); err != nil {
		return nil, err
	}

	if target != "" {
		return s.resolveTarget(ctx, docs, target)
	}

	set := models.WithModels(docs)
	run := s.startRun("", set.Namespaces())
	resolved, resolveErr := s.resolver.ResolveLocalNamesForAll(ctx, set)
	return s.finishRun(ctx, run, resolved, resolveErr)
}

// resolveTarget resolves the peer named namespace against peers.
func (s *WorkspaceService) resolveTarget(ctx context.Context, peers []*domain.Document, namespace string) (*domain.Run, error) {
	var target *domain.Document
	for _, peer := range peers {
		if peer.Namespace == namespace {
			target = peer
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("namespace %s: %w", namespace, domain.ErrNotFound)
	}

	run := s.startRun(namespace, domain.NewModels(peers...).Namespaces())

	var resolved *domain.Models
	doc, resolveErr := s.resolver.ResolveLocalNames(ctx, peers, target)
	if resolveErr == nil {
		resolved = domain.NewModels(doc)
	}
	return s.finishRun(ctx, run, resolved, resolveErr)
}

// Runs lists recorded runs, newest first.
func (s *WorkspaceService) Runs(ctx context.Context) ([]domain.Run, error) {
	return s.runs.List(ctx)
}

// Run returns a recorded run.
func (s *WorkspaceService) Run(ctx context.Context, id string) (*domain.Run, error) {
	return s.runs.Get(ctx, id)
}

func (s *WorkspaceService) startRun(target string, namespaces []string) *domain.Run {
	return &domain.Run{
		ID:         uuid.New().String(),
		Target:     target,
		Namespaces: namespaces,
		StartedAt:  s.now(),
	}
}

// finishRun records the outcome. The resolution error, if any, is returned
// unwrapped so its message reaches the caller as is.
func (s *WorkspaceService) finishRun(
	ctx context.Context,
	run *domain.Run,
	resolved *domain.Models,
	resolveErr error,
) (*domain.Run, error) {
	run.FinishedAt = s.now()
	if resolveErr != nil {
		run.Status = domain.RunFailed
		run.Error = resolveErr.Error()
		logger.Warn("Run %s failed: %v", run.ID, resolveErr)
	} else {
		run.Status = domain.RunSucceeded
		run.Resolved = resolved
		logger.Info("Run %s resolved %d documents in %s", run.ID, len(resolved.Models), run.Duration())
	}

	if err := s.runs.Save(ctx, run); err != nil {
		return run, fmt.Errorf("save run: %w", err)
	}
	return run, resolveErr
}
