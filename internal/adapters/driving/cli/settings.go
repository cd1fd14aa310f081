package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaresolve/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Keys:
  resolver.workers           documents resolved concurrently
  resolver.system_namespace  namespace of the system types (empty disables them)
  resolver.system_types      comma separated system type names
  fetch.rate_per_second      external fetch throttle
  fetch.timeout_seconds      per request timeout
  fetch.github_token         token for models hosted on GitHub
  storage.data_dir           directory of the workspace database`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := getServices()
	if err != nil {
		return err
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	heading := func(s string) { cmd.Println(style(out, headingStyle, s)) }

	heading("[resolver]")
	cmd.Printf("  workers: %d\n", settings.Resolver.Workers)
	systemNamespace := settings.Resolver.SystemNamespace
	if systemNamespace == "" {
		systemNamespace = "(disabled)"
	}
	cmd.Printf("  system_namespace: %s\n", systemNamespace)
	cmd.Printf("  system_types: %s\n", strings.Join(settings.Resolver.SystemTypes, ", "))
	cmd.Println()

	heading("[fetch]")
	cmd.Printf("  rate_per_second: %g\n", settings.Fetch.RatePerSecond)
	cmd.Printf("  timeout_seconds: %d\n", settings.Fetch.TimeoutSeconds)
	token := style(out, mutedStyle, "(not set)")
	if settings.Fetch.GitHubToken != "" {
		token = "********"
	}
	cmd.Printf("  github_token: %s\n", token)
	cmd.Println()

	heading("[storage]")
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = style(out, mutedStyle, "(default)")
	}
	cmd.Printf("  data_dir: %s\n", dataDir)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := getServices()
	if err != nil {
		return err
	}

	if err := svc.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	value := args[1]
	if args[0] == services.KeyFetchGitHubToken && value != "" {
		value = "********"
	}
	cmd.Printf("Set %s to %s\n", args[0], value)
	return nil
}
