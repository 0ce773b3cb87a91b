package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gorewood/daylio2md/internal/config"
	"github.com/gorewood/daylio2md/internal/convert"
	"github.com/gorewood/daylio2md/internal/export"
	"github.com/gorewood/daylio2md/internal/output"
)

// newConvertCmd creates the convert command.
func newConvertCmd() *cobra.Command {
	var backupPath string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "convert [backup]",
		Short: "Write one Markdown file per entry and copy media",
		Long: `Convert a Daylio backup archive into Markdown notes.

Each day entry becomes <markdown>/<YYYY-MM-DD>-daylio-<id>.md (or
<markdown>/<YYYY>/<MM>/... with --nested), rendered from a template. Photos
and audio referenced by entries are copied into the media directory and
linked relative to each note.

Existing files are replaced when their content differs and left untouched
when identical. Entries that fail are reported and do not stop the batch.

Settings can also come from .daylio2md.yaml, <config dir>/config.yaml and
DAYLIO2MD_* environment variables; flags win.

Examples:
  daylio2md convert backup.daylio --markdown notes --media notes/media
  daylio2md convert --backup backup.daylio --markdown vault/Journal \
      --media vault/Attachments --template obsidian --nested
  daylio2md convert backup.daylio --markdown notes --media media --dry-run --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if backupPath != "" && backupPath != args[0] {
					return fail(newPrinter(cmd), output.NewUserError("backup given both as argument and --backup"))
				}
				backupPath = args[0]
			}
			return runConvert(cmd, backupPath, dryRun)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&backupPath, "backup", "b", "", "Path to the Daylio backup archive")
	flags.StringP("markdown", "m", "", "Directory for Markdown files")
	flags.String("media", "", "Directory for copied media")
	flags.StringP("template", "t", "", "Template name or path (default \"default\")")
	flags.String("engine", "", "Template engine: pongo2 or go (default: the template's own)")
	flags.Bool("skip-empty", false, "Skip entries with no note, title or media")
	flags.Bool("ignore-version", false, "Convert backups whose payload version is not 15")
	flags.Bool("nested", false, "Write notes into YYYY/MM subdirectories")
	flags.Bool("keep-existing", false, "Never replace files that already exist")
	flags.BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")

	return cmd
}

// runConvert executes the convert command.
func runConvert(cmd *cobra.Command, backupPath string, dryRun bool) error {
	printer := newPrinter(cmd)

	if backupPath == "" {
		return fail(printer, output.NewUserError("a backup archive is required (argument or --backup)"))
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fail(printer, output.NewUserErrorWithCause(err.Error(), err))
	}
	if cfg.Markdown == "" || cfg.Media == "" {
		return fail(printer, output.NewUserError("--markdown and --media are required"))
	}

	logger, closeLog := newLogger(cmd, cfg.LogFile)
	defer closeLog()

	report, err := convert.Run(cmd.Context(), convert.Options{
		Backup: backupPath,
		Output: export.Options{
			MarkdownDir:  cfg.Markdown,
			MediaDir:     cfg.Media,
			Nested:       cfg.Nested,
			DryRun:       dryRun,
			KeepExisting: cfg.KeepExisting,
		},
		Template:      cfg.Template,
		Engine:        cfg.Engine,
		SkipEmpty:     cfg.SkipEmpty,
		IgnoreVersion: cfg.IgnoreVersion,
		Logger:        logger,
	})
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(report); err != nil {
			return err
		}
	} else {
		printConvertReport(printer, report, isVerbose(cmd))
	}

	if report.AllFailed() {
		err := output.NewAllFailedError(fmt.Sprintf("all %d attempted entries failed", report.Attempted))
		if !printer.IsJSON() {
			printer.Error(err)
		}
		return err
	}
	return nil
}

// printConvertReport renders a conversion report for humans.
func printConvertReport(printer *output.Printer, report *convert.Report, verbose bool) {
	if report.VersionWarning != "" {
		printer.Warn("%s", report.VersionWarning)
	}

	if verbose {
		for _, result := range report.Files {
			printer.Status(string(result.Markdown.Status), result.Markdown.Path)
			for _, media := range result.Media {
				printer.Status(string(media.Status), media.Path)
			}
		}
		for _, failure := range report.Failures {
			printer.Status("failed", failure.Error)
		}
	}

	verb := "Converted"
	if report.DryRun {
		verb = "Would convert"
	}
	printer.Print("%s %d of %d entries", verb, report.Converted, report.Total)
	if report.Skipped > 0 || report.Failed > 0 {
		printer.Print(" (%d skipped, %d failed)", report.Skipped, report.Failed)
	}
	printer.Println()

	printer.KeyValue("Template", fmt.Sprintf("%s (%s)", report.Template, report.Engine))
	if report.DryRun {
		printer.KeyValue("Planned", fmt.Sprintf("%d files, %s", report.Planned, humanize.Bytes(uint64(report.Bytes))))
	} else {
		printer.KeyValue("Written", fmt.Sprintf("%d files, %s", report.Written, humanize.Bytes(uint64(report.Bytes))))
		printer.KeyValue("Unchanged", strconv.Itoa(report.Unchanged))
	}
	if report.Kept > 0 {
		printer.KeyValue("Kept", strconv.Itoa(report.Kept))
	}

	if len(report.Failures) > 0 {
		printer.Section("Failures")
		rows := make([][]string, 0, len(report.Failures))
		for _, failure := range report.Failures {
			rows = append(rows, []string{entryLabel(failure.EntryID), failure.Stage, failure.Error})
		}
		printer.Table([]string{"Entry", "Stage", "Error"}, rows)
	}

	if len(report.Warnings) > 0 {
		printer.Section("Dropped references")
		rows := make([][]string, 0, len(report.Warnings))
		for _, warning := range report.Warnings {
			rows = append(rows, []string{
				entryLabel(warning.EntryID),
				string(warning.Kind),
				strconv.FormatInt(warning.RefID, 10),
			})
		}
		printer.Table([]string{"Entry", "Kind", "ID"}, rows)
	}
}

func entryLabel(id int64) string {
	if id == 0 {
		return "?"
	}
	return strconv.FormatInt(id, 10)
}
