package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var importsCmd = &cobra.Command{
	Use:   "imports [files...]",
	Short: "List the names imported by model files",
	Long: `List, per document, the fully qualified names its imports make
available. Wildcard imports show as "<namespace>.*".

With --external, list instead the names imported from an external uri and
the uri each comes from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImports,
}

func init() {
	importsCmd.Flags().Bool("external", false, "list external imports and their uris")
	importsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(importsCmd)
}

// documentImports is the imports of one document.
type documentImports struct {
	Namespace string            `json:"namespace"`
	Names     []string          `json:"names,omitempty"`
	External  map[string]string `json:"external,omitempty"`
}

func runImports(cmd *cobra.Command, args []string) error {
	external, _ := cmd.Flags().GetBool("external")
	asJSON, _ := cmd.Flags().GetBool("json")

	svc, err := getServices()
	if err != nil {
		return err
	}

	var results []documentImports
	for _, path := range args {
		docs, err := svc.Source.Load(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		for _, doc := range docs {
			result := documentImports{Namespace: doc.Namespace}
			if external {
				result.External = svc.Resolver.ExternalImports(doc)
			} else {
				for _, imp := range doc.Imports {
					names, err := svc.Resolver.ImportFullyQualifiedNames(imp.Node())
					if err != nil {
						return fmt.Errorf("%s: %w", doc.Namespace, err)
					}
					result.Names = append(result.Names, names...)
				}
			}
			results = append(results, result)
		}
	}

	if asJSON {
		if results == nil {
			results = []documentImports{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out := cmd.OutOrStdout()
	for _, result := range results {
		fmt.Fprintln(out, style(out, headingStyle, result.Namespace))
		switch {
		case external && len(result.External) > 0:
			names := make([]string, 0, len(result.External))
			for name := range result.External {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s %s\n", name, style(out, mutedStyle, "<- "+result.External[name]))
			}
		case !external && len(result.Names) > 0:
			for _, name := range result.Names {
				fmt.Fprintf(out, "  %s\n", name)
			}
		default:
			fmt.Fprintln(out, style(out, mutedStyle, "  (none)"))
		}
	}
	return nil
}

