package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/gorewood/daylio2md/internal/export"
	"github.com/gorewood/daylio2md/internal/journal"
	"github.com/gorewood/daylio2md/internal/render"
)

// Options configures Run.
type Options struct {
	Backup        string
	Output        export.Options
	Template      string // name or path; empty means "default"
	Engine        string // empty uses the template's own engine
	SkipEmpty     bool
	IgnoreVersion bool
	Logger        *zap.Logger
}

// UsageError reports a problem with the options rather than the data:
// an unknown template or engine, or missing output directories.
type UsageError struct {
	Err error
}

// Error returns the underlying message unchanged.
func (e *UsageError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// Run converts a backup. It returns an error only for fatal problems, in
// which case nothing has been written. Per-entry failures are collected in
// the Report; callers should check Report.AllFailed.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	writer, err := export.NewWriter(opts.Output)
	if err != nil {
		return nil, &UsageError{Err: err}
	}

	tmpl, err := render.LoadTemplate(opts.Template)
	if err != nil {
		return nil, &UsageError{Err: err}
	}
	renderer, err := tmpl.Compile(opts.Engine)
	if err != nil {
		return nil, &UsageError{Err: err}
	}
	logger.Debug("template loaded",
		zap.String("name", tmpl.Name),
		zap.String("source", tmpl.Source),
		zap.String("engine", tmpl.EngineName(opts.Engine)))

	b, err := Load(opts.Backup, opts.IgnoreVersion)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			logger.Warn("closing backup", zap.Error(cerr))
		}
	}()

	if b.VersionWarning != "" {
		logger.Warn("converting unsupported version", zap.Int("version", b.Raw.Version))
	}

	if err := writer.EnsureDirs(); err != nil {
		return nil, err
	}

	report := &Report{
		Backup:         opts.Backup,
		Version:        b.Raw.Version,
		VersionWarning: b.VersionWarning,
		Template:       tmpl.Name,
		Engine:         tmpl.EngineName(opts.Engine),
		DryRun:         opts.Output.DryRun,
		Total:          len(b.Raw.DayEntries),
	}

	for _, ferr := range b.Failures {
		report.Attempted++
		report.fail(failedEntryID(ferr), StageResolve, ferr)
		logger.Debug("entry not resolved", zap.Error(ferr))
	}

	c := &converter{writer: writer, renderer: renderer, media: b.Archive, logger: logger}
	for _, entry := range b.Entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if opts.SkipEmpty && entry.IsEmpty() {
			report.Skipped++
			logger.Debug("skipping empty entry", zap.Int64("entry", entry.ID))
			continue
		}

		report.Attempted++
		report.Warnings = append(report.Warnings, entry.Warnings...)
		result, stage, err := c.convert(entry)
		if err != nil {
			report.fail(entry.ID, stage, err)
			logger.Debug("entry failed", zap.Int64("entry", entry.ID), zap.String("stage", stage), zap.Error(err))
			continue
		}
		report.record(result)
	}

	logger.Info("conversion finished",
		zap.Int("converted", report.Converted),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.String("written", humanize.Bytes(uint64(report.Bytes))))

	return report, nil
}

// converter renders and writes single entries.
type converter struct {
	writer   *export.Writer
	renderer render.Renderer
	media    export.MediaSource
	logger   *zap.Logger
}

func (c *converter) convert(entry *journal.Entry) (*export.Result, string, error) {
	files, err := c.writer.PlanMedia(entry, c.media)
	if err != nil {
		return nil, StageMedia, err
	}

	mdPath := c.writer.MarkdownPath(entry)
	refs := make([]render.AssetRef, 0, len(files))
	for _, file := range files {
		// A malformed metadata blob only costs the original file name.
		meta, _ := file.Asset.Metadata()
		refs = append(refs, render.AssetRef{
			ID:          file.Asset.ID,
			Type:        file.Asset.Type.String(),
			Name:        file.Name,
			Path:        export.LinkPath(mdPath, file.Path),
			ArchivePath: file.Asset.ArchivePath,
			MIME:        file.MIME,
			Original:    meta.Name,
		})
	}

	markdown, err := c.renderer.Render(render.NewContext(entry, refs))
	if err != nil {
		return nil, StageRender, fmt.Errorf("entry %d: %w", entry.ID, err)
	}

	result, err := c.writer.WriteEntry(entry, markdown, files)
	if err != nil {
		return nil, StageWrite, err
	}

	c.logger.Debug("entry converted",
		zap.Int64("entry", entry.ID),
		zap.String("path", result.Markdown.Path),
		zap.String("status", string(result.Markdown.Status)),
		zap.Int("media", len(result.Media)))
	return result, "", nil
}

func failedEntryID(err error) int64 {
	var resErr *journal.ResolutionError
	if errors.As(err, &resErr) {
		return resErr.EntryID
	}
	return 0
}
