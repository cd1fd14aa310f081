package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded resolution runs",
	Long:  `Runs are recorded when resolving with --store.`,
	RunE:  runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "maximum number of runs to list (0 = all)")
	runsShowCmd.Flags().Bool("output", false, "print the resolved models")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	limit := 20
	if f := cmd.Flags().Lookup("limit"); f != nil {
		limit, _ = cmd.Flags().GetInt("limit")
	}

	svc, err := getServices()
	if err != nil {
		return err
	}
	runs, err := svc.Workspace.Runs(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tTARGET\tDOCUMENTS\tDURATION")
	for i := range runs {
		run := &runs[i]
		target := run.Target
		if target == "" {
			target = "(all)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			statusText(out, run.Status),
			target,
			len(run.Namespaces),
			run.Duration().Round(time.Millisecond),
		)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	withOutput, _ := cmd.Flags().GetBool("output")

	svc, err := getServices()
	if err != nil {
		return err
	}
	run, err := svc.Workspace.Run(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting run %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, style(out, headingStyle, "Run "+run.ID))
	fmt.Fprintf(out, "  Status:     %s\n", statusText(out, run.Status))
	if run.Target != "" {
		fmt.Fprintf(out, "  Target:     %s\n", run.Target)
	}
	fmt.Fprintf(out, "  Started:    %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "  Duration:   %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(out, "  Namespaces: %s\n", strings.Join(run.Namespaces, ", "))
	if run.Error != "" {
		fmt.Fprintf(out, "  Error:      %s\n", style(out, failureStyle, run.Error))
	}

	if withOutput && run.Resolved != nil {
		fmt.Fprintln(out)
		return writeModels(out, run.Resolved)
	}
	return nil
}
