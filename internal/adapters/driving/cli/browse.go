package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the workspace in an interactive terminal UI",
	Long: `Browse stored models and recorded runs in the workspace database.

Controls:
  ↑/k, ↓/j  Navigate
  Enter     Open model or run
  r         Resolve the selected namespace
  a         Resolve every stored namespace
  ctrl+r    Refresh
  Esc       Back
  q         Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	svc, err := getServices()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Workspace: svc.Workspace})
	if err != nil {
		return err
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
