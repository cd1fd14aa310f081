// Command metaresolve resolves type names in Concerto metamodel documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/metaresolve/internal/adapters/driven/config/file"
	"github.com/custodia-labs/metaresolve/internal/adapters/driven/fetch"
	"github.com/custodia-labs/metaresolve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/metaresolve/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/cli"
	"github.com/custodia-labs/metaresolve/internal/connectors/filesystem"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
	"github.com/custodia-labs/metaresolve/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(bootstrap); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters around the core services.
func bootstrap(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" && configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	resolver := services.NewResolverServiceFromSettings(settings.Resolver)
	source := filesystem.NewSource()
	fetcher, err := fetch.NewHTTPFetcher(settings.Fetch, fetch.WithLocalSource(source))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	return &cli.Services{
		Resolver:  resolver,
		Workspace: services.NewWorkspaceService(resolver, store.ModelStore(), store.RunStore(), source, fetcher),
		Scratch: func() driving.WorkspaceService {
			return services.NewWorkspaceService(resolver, memory.NewModelStore(), memory.NewRunStore(), source, fetcher)
		},
		Settings: settingsService,
		Source:   source,
		Close:    store.Close,
	}, nil
}
