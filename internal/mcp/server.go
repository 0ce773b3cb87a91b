// Package mcp provides a Model Context Protocol server for daylio2md.
// It exposes backup inspection and conversion as MCP tools so an agent can
// explore a Daylio export and turn it into Markdown notes.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// NewServer creates an MCP server with all daylio2md tools registered.
// A nil logger discards diagnostics.
func NewServer(version string, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "daylio2md",
		Version: version,
	}, nil)
	registerTools(server, logger)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for the convert tool. Re-running a
// conversion rewrites the same files, so it is idempotent but not additive.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all daylio2md tools to the server.
func registerTools(server *mcp.Server, logger *zap.Logger) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Summarize a Daylio backup archive: payload version, entry counts, media size, date range, and mood and tag usage.",
		Annotations: readOnlyAnnotations(),
	}, handleInspect())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List day entries of a Daylio backup with date, mood, tags and title. Supports since/until dates, mood and tag filters, and a limit on the most recent entries.",
		Annotations: readOnlyAnnotations(),
	}, handleListEntries())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "templates",
		Description: "List the Markdown templates available for conversion, with their source and engine.",
		Annotations: readOnlyAnnotations(),
	}, handleTemplates())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert a Daylio backup into one Markdown file per entry and copy its media. Existing files with different content are overwritten; set dry_run to preview.",
		Annotations: writeAnnotations(),
	}, handleConvert(logger))
}
