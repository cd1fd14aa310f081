package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaresolve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
)

func newTestWorkspace(t *testing.T, source *mockModelSource, fetcher *mockModelFetcher) *WorkspaceService {
	t.Helper()
	// Nil mocks must stay untyped nil interfaces.
	var src driven.ModelSource
	if source != nil {
		src = source
	}
	var fetch driven.ModelFetcher
	if fetcher != nil {
		fetch = fetcher
	}
	s := NewWorkspaceService(newDefaultResolver(), memory.NewModelStore(), memory.NewRunStore(), src, fetch)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestWorkspaceService_Load(t *testing.T) {
	source := newMockModelSource()
	source.docs["models/"] = loadModels(t, "car.json").Models
	s := newTestWorkspace(t, source, nil)
	ctx := context.Background()

	loaded, err := s.Load(ctx, []string{"models/"})

	require.NoError(t, err)
	assert.Equal(t, []string{"org.vehicle", "org.car"}, loaded)

	namespaces, err := s.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"org.car", "org.vehicle"}, namespaces)
}

func TestWorkspaceService_Load_NoSource(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)

	_, err := s.Load(context.Background(), []string{"models/"})

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestWorkspaceService_Load_MissingPath(t *testing.T) {
	s := newTestWorkspace(t, newMockModelSource(), nil)

	_, err := s.Load(context.Background(), []string{"nowhere"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkspaceService_Add_RejectsMissingNamespace(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)

	err := s.Add(context.Background(), domain.NewDocument("", nil))

	assert.ErrorIs(t, err, domain.ErrInvalidModel)
}

func TestWorkspaceService_GetAndRemove(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, domain.NewDocument("org.vehicle", nil)))

	doc, err := s.Get(ctx, "org.vehicle")
	require.NoError(t, err)
	assert.Equal(t, "org.vehicle", doc.Namespace)

	require.NoError(t, s.Remove(ctx, "org.vehicle"))

	_, err = s.Get(ctx, "org.vehicle")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Remove(ctx, "org.vehicle")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkspaceService_ResolveAll(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, loadModels(t, "car.json").Models...))

	run, err := s.ResolveAll(ctx)

	require.NoError(t, err)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.ID)
	assert.Empty(t, run.Target)
	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Equal(t, []string{"org.car", "org.vehicle"}, run.Namespaces)
	assert.Equal(t, time.Second, run.Duration())
	require.NotNil(t, run.Resolved)
	require.Len(t, run.Resolved.Models, 2)

	car := run.Resolved.Models[0]
	assert.Equal(t, "org.vehicle", car.Declarations[0].GetObject("superType").GetString("namespace"))

	stored, err := s.Run(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, stored.Status)
}

func TestWorkspaceService_ResolveAll_RecordsFailure(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, loadModels(t, "carWrongExtends.json").Models...))

	run, err := s.ResolveAll(ctx)

	require.Error(t, err)
	assert.EqualError(t, err, "Name VehicleWrong not found")
	require.NotNil(t, run)
	assert.Equal(t, domain.RunFailed, run.Status)
	assert.Equal(t, "Name VehicleWrong not found", run.Error)
	assert.Nil(t, run.Resolved)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestWorkspaceService_ResolveAll_SaveRunFails(t *testing.T) {
	s := NewWorkspaceService(newDefaultResolver(), memory.NewModelStore(), failingRunStore{}, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, domain.NewDocument("org.vehicle", nil)))

	run, err := s.ResolveAll(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save run")
	assert.Equal(t, domain.RunSucceeded, run.Status)
}

func TestWorkspaceService_Resolve(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, loadModels(t, "carImportTypes.json").Models...))

	run, err := s.Resolve(ctx, "org.car")

	require.NoError(t, err)
	assert.Equal(t, "org.car", run.Target)
	require.Len(t, run.Resolved.Models, 1)
	assert.Equal(t, "org.car", run.Resolved.Models[0].Namespace)
}

func TestWorkspaceService_Resolve_UnknownNamespace(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)

	run, err := s.Resolve(context.Background(), "org.missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, run)
}

func TestWorkspaceService_Runs_NewestFirst(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, domain.NewDocument("org.vehicle", nil)))

	first, err := s.ResolveAll(ctx)
	require.NoError(t, err)
	second, err := s.Resolve(ctx, "org.vehicle")
	require.NoError(t, err)

	runs, err := s.Runs(ctx)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestWorkspaceService_FetchExternal(t *testing.T) {
	fetcher := newMockModelFetcher()
	fetcher.docs["https://models.example.com/vehicle.json"] = mustDocument(t, `{
		"namespace": "org.vehicle",
		"imports": [{"$class": "concerto.metamodel@1.0.0.ImportType", "namespace": "org.base", "name": "Base", "uri": "https://models.example.com/base.json"}],
		"declarations": [{"$class": "concerto.metamodel@1.0.0.ConceptDeclaration", "name": "Vehicle"}]
	}`)
	fetcher.docs["https://models.example.com/base.json"] = mustDocument(t, `{
		"namespace": "org.base",
		"declarations": [{"$class": "concerto.metamodel@1.0.0.ConceptDeclaration", "name": "Base"}]
	}`)
	s := newTestWorkspace(t, nil, fetcher)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, mustDocument(t, `{
		"namespace": "org.car",
		"imports": [{"$class": "concerto.metamodel@1.0.0.ImportAll", "namespace": "org.vehicle", "uri": "https://models.example.com/vehicle.json"}]
	}`)))

	fetched, err := s.FetchExternal(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"org.vehicle", "org.base"}, fetched)
	assert.Equal(t, []string{
		"https://models.example.com/vehicle.json",
		"https://models.example.com/base.json",
	}, fetcher.fetched)

	// Nothing left to fetch.
	fetched, err = s.FetchExternal(ctx)
	require.NoError(t, err)
	assert.Empty(t, fetched)
}

func TestWorkspaceService_FetchExternal_SkipsStoredNamespaces(t *testing.T) {
	fetcher := newMockModelFetcher()
	s := newTestWorkspace(t, nil, fetcher)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx,
		domain.NewDocument("org.vehicle", nil),
		mustDocument(t, `{
			"namespace": "org.car",
			"imports": [{"$class": "concerto.metamodel@1.0.0.ImportAll", "namespace": "org.vehicle", "uri": "https://models.example.com/vehicle.json"}]
		}`),
	))

	fetched, err := s.FetchExternal(ctx)

	require.NoError(t, err)
	assert.Empty(t, fetched)
	assert.Empty(t, fetcher.fetched)
}

func TestWorkspaceService_FetchExternal_Errors(t *testing.T) {
	t.Run("no fetcher", func(t *testing.T) {
		s := newTestWorkspace(t, nil, nil)
		_, err := s.FetchExternal(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("fetch fails", func(t *testing.T) {
		s := newTestWorkspace(t, nil, newMockModelFetcher())
		ctx := context.Background()
		require.NoError(t, s.Add(ctx, mustDocument(t, `{
			"namespace": "org.car",
			"imports": [{"$class": "concerto.metamodel@1.0.0.ImportAll", "namespace": "org.gone", "uri": "https://models.example.com/gone.json"}]
		}`)))

		_, err := s.FetchExternal(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "https://models.example.com/gone.json")
	})
}

func TestNamespaceOf(t *testing.T) {
	assert.Equal(t, "org.vehicle", namespaceOf("org.vehicle.*"))
	assert.Equal(t, "org.vehicle", namespaceOf("org.vehicle.Car"))
	assert.Equal(t, "plain", namespaceOf("plain"))
}

const (
	vehicleOnlyJSON = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.vehicle","declarations":[` +
		`{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Vehicle"}]}`

	truckJSON = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.truck",` +
		`"imports":[{"$class":"concerto.metamodel@1.0.0.ImportType","namespace":"org.vehicle","name":"Truck"}],` +
		`"declarations":[{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Pickup",` +
		`"superType":{"$class":"concerto.metamodel@1.0.0.TypeIdentifier","name":"Truck"}}]}`
)

func TestWorkspaceService_Load_DuplicateNamespaceKeepsFirst(t *testing.T) {
	named := func(name string) *domain.Object {
		decl := domain.NewObject()
		decl.Set("name", name)
		return decl
	}
	first := domain.NewDocument("org.vehicle", nil, named("Vehicle"))
	second := domain.NewDocument("org.vehicle", nil, named("Truck"))
	source := newMockModelSource()
	source.docs["a/"] = []*domain.Document{first}
	source.docs["b/"] = []*domain.Document{second, domain.NewDocument("org.car", nil)}
	s := newTestWorkspace(t, source, nil)
	ctx := context.Background()

	loaded, err := s.Load(ctx, []string{"a/", "b/"})

	require.NoError(t, err)
	assert.Equal(t, []string{"org.vehicle", "org.car"}, loaded)
	stored, err := s.Get(ctx, "org.vehicle")
	require.NoError(t, err)
	assert.Equal(t, "Vehicle", stored.Declarations[0].GetString("name"))
}

func TestWorkspaceService_ResolveModels_IgnoresOtherStoredDocuments(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, mustDocument(t, vehicleOnlyJSON)))

	run, err := s.ResolveModels(ctx, domain.NewModels(mustDocument(t, truckJSON)), "")

	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Equal(t, []string{"org.truck"}, run.Namespaces)
	assert.Equal(t, []string{"org.truck"}, run.Resolved.Namespaces())
	superType := run.Resolved.Models[0].Declarations[0].GetObject("superType")
	assert.Equal(t, "org.vehicle", superType.GetString("namespace"))

	namespaces, err := s.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"org.truck", "org.vehicle"}, namespaces)

	// Resolving everything stored checks the import against org.vehicle.
	_, err = s.ResolveAll(ctx)
	assert.ErrorIs(t, err, domain.ErrDeclarationNotFound)
}

func TestWorkspaceService_ResolveModels_KeepsOrder(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	models := loadModels(t, "car.json")
	reversed := models.WithModels([]*domain.Document{models.Models[1], models.Models[0]})

	run, err := s.ResolveModels(context.Background(), reversed, "")

	require.NoError(t, err)
	assert.Equal(t, reversed.Namespaces(), run.Resolved.Namespaces())
	assert.Equal(t, reversed.Namespaces(), run.Namespaces)
}

func TestWorkspaceService_ResolveModels_Target(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()

	run, err := s.ResolveModels(ctx, loadModels(t, "car.json"), "org.car")

	require.NoError(t, err)
	assert.Equal(t, "org.car", run.Target)
	assert.Equal(t, []string{"org.car"}, run.Resolved.Namespaces())

	run, err = s.ResolveModels(ctx, loadModels(t, "car.json"), "org.boat")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, run)
}

func TestWorkspaceService_ResolveModels_Errors(t *testing.T) {
	s := newTestWorkspace(t, nil, nil)
	ctx := context.Background()

	_, err := s.ResolveModels(ctx, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	run, err := s.ResolveModels(ctx, loadModels(t, "carWrongExtends.json"), "")
	assert.True(t, domain.IsResolutionError(err))
	require.NotNil(t, run)
	assert.Equal(t, domain.RunFailed, run.Status)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
