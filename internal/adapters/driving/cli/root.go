// Package cli provides the metaresolve command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// Services are the ports the commands run against.
type Services struct {
	// Resolver resolves documents read straight from files.
	Resolver driving.ResolverService

	// Workspace is backed by persistent storage.
	Workspace driving.WorkspaceService

	// Scratch creates an empty in-memory workspace.
	Scratch func() driving.WorkspaceService

	// Settings manages the configuration file.
	Settings driving.SettingsService

	// Source reads and watches model files.
	Source driven.ModelSource

	// Close releases storage. May be nil.
	Close func() error
}

// Bootstrap builds the services for a configuration directory.
type Bootstrap func(configDir string) (*Services, error)

var (
	version   = "dev"
	verbose   bool
	configDir string

	bootstrap Bootstrap
	current   *Services
)

var rootCmd = &cobra.Command{
	Use:   "metaresolve",
	Short: "Resolve type names in Concerto metamodel documents",
	Long: `metaresolve rewrites the locally written type names of Concerto
metamodel documents into fully qualified names.

Every TypeIdentifier gains the namespace its name resolves to, following
local declarations first, then imports in order, then the system types.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.metaresolve)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Services are built with b on first use.
func Execute(b Bootstrap) error {
	bootstrap = b
	defer closeServices()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, style(os.Stderr, failureStyle, "Error: "+err.Error()))
		return err
	}
	return nil
}

// getServices returns the services, building them on first use.
func getServices() (*Services, error) {
	if current != nil {
		return current, nil
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}
	s, err := bootstrap(configDir)
	if err != nil {
		return nil, fmt.Errorf("initialising: %w", err)
	}
	current = s
	return current, nil
}

func closeServices() {
	if current == nil || current.Close == nil {
		return
	}
	if err := current.Close(); err != nil {
		logger.Warn("closing storage: %v", err)
	}
	current = nil
}
