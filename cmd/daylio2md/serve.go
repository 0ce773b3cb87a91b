package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	daylio2mdmcp "github.com/gorewood/daylio2md/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run daylio2md as a Model Context Protocol (MCP) server over stdio.

This exposes backup inspection and conversion as MCP tools that any
MCP-capable agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "daylio2md": {
        "command": "daylio2md",
        "args": ["serve"]
      }
    }
  }

Diagnostics go to stderr, and to --log-file when set.

Available tools: inspect, list_entries, templates, convert`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logFile, _ := cmd.Flags().GetString("log-file")
			logger, closeLog := newLogger(cmd, logFile)
			defer closeLog()

			server := daylio2mdmcp.NewServer(buildVersion(), logger)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
