package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/gorewood/daylio2md/internal/backup"
	"github.com/gorewood/daylio2md/internal/convert"
	"github.com/gorewood/daylio2md/internal/journal"
	"github.com/gorewood/daylio2md/internal/output"
)

// classifyError maps pipeline errors onto exit codes. A missing file or bad
// option is a user error and unreadable backup data a data error. Anything
// else is a system error.
func classifyError(err error) *output.ExitError {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		formatErr  *backup.FormatError
		decodeErr  *journal.DecodeError
		payloadErr *journal.PayloadFormatError
		versionErr *journal.VersionError
		usageErr   *convert.UsageError
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return output.NewUserErrorWithCause(err.Error(), err)
	case errors.As(err, &versionErr):
		return output.NewDataError(err.Error()+" (use --ignore-version to convert anyway)", err)
	case errors.As(err, &formatErr), errors.As(err, &decodeErr), errors.As(err, &payloadErr):
		return output.NewDataError(err.Error(), err)
	case errors.As(err, &usageErr), errors.Is(err, context.Canceled):
		return output.NewUserErrorWithCause(err.Error(), err)
	default:
		return output.NewSystemErrorWithCause(err.Error(), err)
	}
}

// fail classifies err, prints it and returns it for cobra.
func fail(printer *output.Printer, err error) error {
	exitErr := classifyError(err)
	printer.Error(exitErr)
	return exitErr
}
