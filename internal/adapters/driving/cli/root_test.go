package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaresolve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/metaresolve/internal/connectors/filesystem"
	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
	"github.com/custodia-labs/metaresolve/internal/core/services"
)

const (
	vehicleModel = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.vehicle","declarations":[` +
		`{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Vehicle"}]}`

	carModel = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.car",` +
		`"imports":[{"$class":"concerto.metamodel@1.0.0.ImportAll","namespace":"org.vehicle"}],` +
		`"declarations":[{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Car",` +
		`"superType":{"$class":"concerto.metamodel@1.0.0.TypeIdentifier","name":"Vehicle"}}]}`

	// orphanModel extends Vehicle without importing it.
	orphanModel = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.car",` +
		`"declarations":[{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Car",` +
		`"superType":{"$class":"concerto.metamodel@1.0.0.TypeIdentifier","name":"Vehicle"}}]}`

	// truckModel imports a Truck that org.vehicle does not declare.
	truckModel = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.truck",` +
		`"imports":[{"$class":"concerto.metamodel@1.0.0.ImportType","namespace":"org.vehicle","name":"Truck"}],` +
		`"declarations":[{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Pickup",` +
		`"superType":{"$class":"concerto.metamodel@1.0.0.TypeIdentifier","name":"Truck"}}]}`

	externalCarModel = `{"$class":"concerto.metamodel@1.0.0.Model","namespace":"org.car",` +
		`"imports":[{"$class":"concerto.metamodel@1.0.0.ImportType","namespace":"org.vehicle","name":"Vehicle",` +
		`"uri":"https://models.example.com/vehicle.json"}],` +
		`"declarations":[{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"Car",` +
		`"superType":{"$class":"concerto.metamodel@1.0.0.TypeIdentifier","name":"Vehicle"}}]}`
)

// stubFetcher serves model JSON by uri.
type stubFetcher struct {
	docs map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, uri string) (*domain.Document, error) {
	data, ok := f.docs[uri]
	if !ok {
		return nil, domain.ErrNotFound
	}
	models, err := domain.DecodeModels([]byte(data))
	if err != nil {
		return nil, err
	}
	return models.Models[0], nil
}

// setupTestServices installs in-memory services for the duration of the test.
func setupTestServices(t *testing.T) *Services {
	t.Helper()

	resolver := services.NewResolverService(services.WithWorkers(2))
	source := filesystem.NewSource()
	fetcher := &stubFetcher{docs: map[string]string{
		"https://models.example.com/vehicle.json": vehicleModel,
	}}
	newWorkspace := func() driving.WorkspaceService {
		return services.NewWorkspaceService(resolver, memory.NewModelStore(), memory.NewRunStore(), source, fetcher)
	}

	svc := &Services{
		Resolver:  resolver,
		Workspace: newWorkspace(),
		Scratch:   newWorkspace,
		Settings:  services.NewSettingsService(memory.NewConfigStore()),
		Source:    source,
	}
	current = svc
	t.Cleanup(func() { current = nil })
	return svc
}

// writeModelDir writes name to content files into a new temp directory.
func writeModelDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "metaresolve", rootCmd.Use)
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"resolve", "imports", "runs", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestGetServices(t *testing.T) {
	defer func() {
		bootstrap = nil
		current = nil
		configDir = ""
	}()

	t.Run("not configured", func(t *testing.T) {
		bootstrap, current = nil, nil

		_, err := getServices()

		assert.EqualError(t, err, "services not configured")
	})

	t.Run("bootstraps once with config dir", func(t *testing.T) {
		current = nil
		configDir = "/tmp/metaresolve-test"
		calls := 0
		var gotDir string
		bootstrap = func(dir string) (*Services, error) {
			calls++
			gotDir = dir
			return &Services{}, nil
		}

		first, err := getServices()
		require.NoError(t, err)
		second, err := getServices()
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "/tmp/metaresolve-test", gotDir)
	})

	t.Run("bootstrap failure", func(t *testing.T) {
		current = nil
		bootstrap = func(string) (*Services, error) {
			return nil, errors.New("disk full")
		}

		_, err := getServices()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Nil(t, current)
	})
}

func TestCloseServices(t *testing.T) {
	closed := false
	current = &Services{Close: func() error {
		closed = true
		return nil
	}}

	closeServices()

	assert.True(t, closed)
	assert.Nil(t, current)

	// Nothing to close.
	closeServices()
}

func TestStyle_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, isTerminal(&buf))
	assert.Equal(t, "Run", style(&buf, headingStyle, "Run"))
}
