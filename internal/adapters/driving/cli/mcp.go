package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

Tools:
  resolve_models    resolve a Models document, or one namespace of it
  expand_import     list the names an import node makes available
  external_imports  map externally imported names to their uri

Resources:
  metaresolve://namespaces           namespaces in the workspace database
  metaresolve://models/{namespace}   a stored model

By default, the server communicates over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (default)
  metaresolve mcp serve

  # HTTP mode
  metaresolve mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, err := getServices()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Resolver:  svc.Resolver,
		Workspace: svc.Workspace,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
