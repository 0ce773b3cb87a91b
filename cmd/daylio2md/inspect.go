package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gorewood/daylio2md/internal/convert"
	"github.com/gorewood/daylio2md/internal/output"
)

// inspectFlags holds the inspect command's flags.
type inspectFlags struct {
	backup        string
	ignoreVersion bool
	entries       bool
	since         string
	until         string
	mood          string
	tag           string
	limit         int
}

// newInspectCmd creates the inspect command.
func newInspectCmd() *cobra.Command {
	var flags inspectFlags
	cmd := &cobra.Command{
		Use:   "inspect [backup]",
		Short: "Summarize a backup without converting it",
		Long: `Show what a Daylio backup contains: payload version, entry counts,
media size, date range, and how often each mood and tag is used.

With --entries, list the entries themselves, optionally filtered.

Examples:
  daylio2md inspect backup.daylio
  daylio2md inspect backup.daylio --entries --since 2024-01-01 --tag work
  daylio2md inspect backup.daylio --entries --limit 10 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.backup = args[0]
			}
			return runInspect(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.backup, "backup", "b", "", "Path to the Daylio backup archive")
	cmd.Flags().BoolVar(&flags.ignoreVersion, "ignore-version", false, "Read backups whose payload version is not 15")
	cmd.Flags().BoolVar(&flags.entries, "entries", false, "List entries instead of the summary")
	cmd.Flags().StringVar(&flags.since, "since", "", "Only entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.until, "until", "", "Only entries on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.mood, "mood", "", "Only entries with this mood")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "Only entries with this tag")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "Only the most recent N entries")

	return cmd
}

// runInspect executes the inspect command.
func runInspect(cmd *cobra.Command, flags inspectFlags) error {
	printer := newPrinter(cmd)

	if flags.backup == "" {
		return fail(printer, output.NewUserError("a backup archive is required (argument or --backup)"))
	}

	filter, err := flags.filter()
	if err != nil {
		return fail(printer, err)
	}

	b, err := convert.Load(flags.backup, flags.ignoreVersion)
	if err != nil {
		return fail(printer, err)
	}
	defer b.Close()

	if flags.entries {
		infos, err := b.ListEntries(filter)
		if err != nil {
			return fail(printer, output.NewUserErrorWithCause(err.Error(), err))
		}
		return printEntries(printer, infos)
	}
	return printSummary(printer, b.Summary())
}

// filter converts the flag values into a convert.Filter.
func (f inspectFlags) filter() (convert.Filter, error) {
	filter := convert.Filter{Mood: f.mood, Tag: f.tag, Limit: f.limit}
	if f.limit < 0 {
		return filter, output.NewUserError("--limit must not be negative")
	}
	var err error
	if f.since != "" {
		if filter.Since, err = time.Parse(time.DateOnly, f.since); err != nil {
			return filter, output.NewUserError(fmt.Sprintf("invalid --since %q: want YYYY-MM-DD", f.since))
		}
	}
	if f.until != "" {
		if filter.Until, err = time.Parse(time.DateOnly, f.until); err != nil {
			return filter, output.NewUserError(fmt.Sprintf("invalid --until %q: want YYYY-MM-DD", f.until))
		}
	}
	return filter, nil
}

func printSummary(printer *output.Printer, s convert.Summary) error {
	if printer.IsJSON() {
		return printer.WriteJSON(s)
	}

	if s.VersionWarning != "" {
		printer.Warn("%s", s.VersionWarning)
	}

	printer.Section("Backup")
	printer.KeyValue("Path", s.Path)
	printer.KeyValue("Version", strconv.Itoa(s.Version))
	printer.KeyValue("Entries", fmt.Sprintf("%d (%d empty, %d unresolved)", s.DayEntries, s.Empty, s.Failed))
	if s.FirstDate != "" {
		printer.KeyValue("Dates", s.FirstDate+" to "+s.LastDate)
	}
	printer.KeyValue("Media", fmt.Sprintf("%d files, %s (%d assets defined)",
		s.MediaFiles, humanize.Bytes(s.MediaBytes), s.Assets))
	if s.Warnings > 0 {
		printer.KeyValue("Dropped references", strconv.Itoa(s.Warnings))
	}

	printer.Section("Moods")
	printer.Table([]string{"Mood", "Entries"}, countRows(s.Moods))

	if len(s.Tags) > 0 {
		printer.Section("Tags")
		printer.Table([]string{"Tag", "Entries"}, countRows(s.Tags))
	}
	return nil
}

func countRows(counts []convert.Count) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Count)})
	}
	return rows
}

func printEntries(printer *output.Printer, infos []convert.EntryInfo) error {
	if printer.IsJSON() {
		if infos == nil {
			infos = []convert.EntryInfo{}
		}
		return printer.WriteJSON(map[string]any{"count": len(infos), "entries": infos})
	}

	if len(infos) == 0 {
		printer.Println("No matching entries")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		title := info.Title
		if info.Empty {
			title = "(empty)"
		}
		rows = append(rows, []string{
			strconv.FormatInt(info.ID, 10),
			info.Date + " " + info.Time,
			info.Mood,
			strings.Join(info.Tags, ", "),
			strconv.Itoa(info.Assets),
			title,
		})
	}
	printer.Table([]string{"ID", "When", "Mood", "Tags", "Media", "Title"}, rows)
	return nil
}
