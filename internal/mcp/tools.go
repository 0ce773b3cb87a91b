package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gorewood/daylio2md/internal/convert"
	"github.com/gorewood/daylio2md/internal/export"
	"github.com/gorewood/daylio2md/internal/render"
)

// --- Inspect tool ---

// InspectInput is the input for the inspect tool.
type InspectInput struct {
	Backup        string `json:"backup"                   jsonschema:"path to the Daylio backup zip"`
	IgnoreVersion bool   `json:"ignore_version,omitempty" jsonschema:"accept payload versions other than 15"`
}

// InspectOutput is the output for the inspect tool.
type InspectOutput struct {
	Summary    convert.Summary `json:"summary"     jsonschema:"counts, date range, and mood and tag usage"`
	MediaHuman string          `json:"media_human" jsonschema:"total media size, human readable"`
}

func handleInspect() mcp.ToolHandlerFor[InspectInput, InspectOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, InspectOutput, error) {
		b, err := loadBackup(input.Backup, input.IgnoreVersion)
		if err != nil {
			return nil, InspectOutput{}, err
		}
		defer b.Close()

		summary := b.Summary()
		return nil, InspectOutput{
			Summary:    summary,
			MediaHuman: humanize.Bytes(summary.MediaBytes),
		}, nil
	}
}

// --- List entries tool ---

// ListEntriesInput is the input for the list_entries tool.
type ListEntriesInput struct {
	Backup        string `json:"backup"                   jsonschema:"path to the Daylio backup zip"`
	Since         string `json:"since,omitempty"          jsonschema:"entries on or after this ISO date or duration (24h, 7d)"`
	Until         string `json:"until,omitempty"          jsonschema:"entries on or before this ISO date or duration"`
	Mood          string `json:"mood,omitempty"           jsonschema:"only entries with this mood name"`
	Tag           string `json:"tag,omitempty"            jsonschema:"only entries with this tag name or hashtag slug"`
	Limit         int    `json:"limit,omitempty"          jsonschema:"return only the most recent N matches"`
	IgnoreVersion bool   `json:"ignore_version,omitempty" jsonschema:"accept payload versions other than 15"`
}

// ListEntriesOutput is the output for the list_entries tool.
type ListEntriesOutput struct {
	Count   int                 `json:"count"   jsonschema:"number of entries returned"`
	Entries []convert.EntryInfo `json:"entries" jsonschema:"matching entries in time order"`
}

func handleListEntries() mcp.ToolHandlerFor[ListEntriesInput, ListEntriesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
		filter, err := buildFilter(input)
		if err != nil {
			return nil, ListEntriesOutput{}, err
		}

		b, err := loadBackup(input.Backup, input.IgnoreVersion)
		if err != nil {
			return nil, ListEntriesOutput{}, err
		}
		defer b.Close()

		entries, err := b.ListEntries(filter)
		if err != nil {
			return nil, ListEntriesOutput{}, err
		}
		if entries == nil {
			entries = []convert.EntryInfo{}
		}
		return nil, ListEntriesOutput{Count: len(entries), Entries: entries}, nil
	}
}

// --- Templates tool ---

// TemplatesInput is the input for the templates tool (no parameters needed).
type TemplatesInput struct{}

// TemplatesOutput is the output for the templates tool.
type TemplatesOutput struct {
	Templates []render.TemplateInfo `json:"templates" jsonschema:"available templates, project and global first"`
	Engines   []string              `json:"engines"   jsonschema:"template engine names"`
}

func handleTemplates() mcp.ToolHandlerFor[TemplatesInput, TemplatesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ TemplatesInput) (*mcp.CallToolResult, TemplatesOutput, error) {
		templates, err := render.ListTemplates()
		if err != nil {
			return nil, TemplatesOutput{}, fmt.Errorf("listing templates: %w", err)
		}
		return nil, TemplatesOutput{Templates: templates, Engines: render.Engines()}, nil
	}
}

// --- Convert tool ---

// ConvertInput is the input for the convert tool.
type ConvertInput struct {
	Backup        string `json:"backup"                   jsonschema:"path to the Daylio backup zip"`
	Markdown      string `json:"markdown"                 jsonschema:"directory for the Markdown files"`
	Media         string `json:"media"                    jsonschema:"directory for copied media"`
	Template      string `json:"template,omitempty"       jsonschema:"template name or path (default: default)"`
	Engine        string `json:"engine,omitempty"         jsonschema:"template engine: pongo2 or go"`
	SkipEmpty     bool   `json:"skip_empty,omitempty"     jsonschema:"skip entries with no note, title or media"`
	Nested        bool   `json:"nested,omitempty"         jsonschema:"write notes into YYYY/MM subdirectories"`
	KeepExisting  bool   `json:"keep_existing,omitempty"  jsonschema:"never replace files that already exist"`
	DryRun        bool   `json:"dry_run,omitempty"        jsonschema:"report what would be written without writing"`
	IgnoreVersion bool   `json:"ignore_version,omitempty" jsonschema:"accept payload versions other than 15"`
}

// ConvertOutput is the output for the convert tool.
type ConvertOutput struct {
	Total     int               `json:"total"            jsonschema:"day entries in the backup"`
	Converted int               `json:"converted"        jsonschema:"entries written or unchanged"`
	Skipped   int               `json:"skipped"          jsonschema:"empty entries skipped"`
	Failed    int               `json:"failed"           jsonschema:"entries that could not be converted"`
	Written   int               `json:"files_written"    jsonschema:"files created or replaced"`
	Unchanged int               `json:"files_unchanged"  jsonschema:"files already identical"`
	Kept      int               `json:"files_kept"       jsonschema:"existing files left alone"`
	Planned   int               `json:"files_planned"    jsonschema:"files a dry run would write"`
	Size      string            `json:"size"             jsonschema:"bytes written, human readable"`
	Warnings  int               `json:"warnings"         jsonschema:"dropped tag and asset references"`
	Failures  []convert.Failure `json:"failures,omitempty" jsonschema:"per-entry failures"`
}

func handleConvert(logger *zap.Logger) mcp.ToolHandlerFor[ConvertInput, ConvertOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
		if input.Backup == "" {
			return nil, ConvertOutput{}, errors.New("backup path is required")
		}

		report, err := convert.Run(ctx, convert.Options{
			Backup: input.Backup,
			Output: export.Options{
				MarkdownDir:  input.Markdown,
				MediaDir:     input.Media,
				Nested:       input.Nested,
				DryRun:       input.DryRun,
				KeepExisting: input.KeepExisting,
			},
			Template:      input.Template,
			Engine:        input.Engine,
			SkipEmpty:     input.SkipEmpty,
			IgnoreVersion: input.IgnoreVersion,
			Logger:        logger,
		})
		if err != nil {
			return nil, ConvertOutput{}, fmt.Errorf("converting backup: %w", err)
		}

		out := ConvertOutput{
			Total:     report.Total,
			Converted: report.Converted,
			Skipped:   report.Skipped,
			Failed:    report.Failed,
			Written:   report.Written,
			Unchanged: report.Unchanged,
			Kept:      report.Kept,
			Planned:   report.Planned,
			Size:      humanize.Bytes(uint64(report.Bytes)),
			Warnings:  len(report.Warnings),
			Failures:  report.Failures,
		}
		if report.AllFailed() {
			return nil, out, fmt.Errorf("all %d attempted entries failed", report.Attempted)
		}
		return nil, out, nil
	}
}
