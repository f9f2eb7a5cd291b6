package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"attrinfer/internal/logging"
	mcpserver "attrinfer/internal/mcp"
	"attrinfer/internal/propertydb"
)

var serveDBPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveDBPath, "db", "propertyinfer.db", "SQLite store path")
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := propertydb.Open(serveDBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	srv, err := mcpserver.NewServer(store)
	if err != nil {
		return fmt.Errorf("build mcp server: %w", err)
	}

	logging.New("mcp").Info("starting propertyinfer MCP server over stdio")
	return srv.MCPServer.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}
