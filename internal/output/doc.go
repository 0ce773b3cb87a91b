// Package output provides user-facing output and exit codes for the
// daylio2md CLI.
//
// # Printer
//
// The Printer writes either styled human text or JSON, chosen by the
// --json flag:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//	printer.Section("Summary")
//	printer.KeyValue("Written", "42")
//	printer.Table([]string{"ENTRY", "ERROR"}, rows)
//
// Errors and warnings go to stderr in human mode and into the JSON stream
// in JSON mode. Styling uses lipgloss and is disabled when output is not
// a terminal or --color=never is set.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: success, even with some failed entries
//	output.ExitUserError   // 1: bad flags, missing backup, unknown template
//	output.ExitSystemError // 2: output I/O failed
//	output.ExitDataError   // 3: archive, payload or version problem
//	output.ExitAllFailed   // 4: every attempted entry failed
package output
