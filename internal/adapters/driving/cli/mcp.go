package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/adapters/driving/mcp"
	"github.com/custodia-labs/lexsync/internal/core/domain"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can look up
documents, their relationships and the latest reconciliation report.

The server reads the relationship graph written by 'lexsync reconcile' or
'lexsync graph' and the run history; it never writes to the registry.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  lexsync mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  lexsync mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "lexsync": {
        "command": "/path/to/lexsync",
        "args": ["mcp", "serve"]
      }
    }
  }`,
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

	ports := &mcp.Ports{
		Reconcile: reconcileService,
		Graph:     artifactGraph{},
	}

	server, err := mcp.NewServer(ports)
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

// artifactGraph reads the graph artifact on every request so the server
// sees graphs written after it started.
type artifactGraph struct{}

func (artifactGraph) Graph(_ context.Context) (*domain.RelationshipGraph, error) {
	if artifactStore == nil {
		return nil, fmt.Errorf("%w: artifact output", domain.ErrNotConfigured)
	}
	return artifactStore.ReadGraph(outputSettings.GraphPath)
}
