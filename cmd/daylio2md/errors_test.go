package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/gorewood/daylio2md/internal/backup"
	"github.com/gorewood/daylio2md/internal/convert"
	"github.com/gorewood/daylio2md/internal/journal"
	"github.com/gorewood/daylio2md/internal/output"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "exit error kept", err: output.NewAllFailedError("x"), want: output.ExitAllFailed},
		{name: "missing backup", err: &backup.FormatError{Path: "b.zip", Reason: "r", Err: os.ErrNotExist}, want: output.ExitUserError},
		{name: "not a zip", err: &backup.FormatError{Path: "b.zip", Reason: "r", Err: errors.New("zip: not a valid zip file")}, want: output.ExitDataError},
		{name: "bad base64", err: &journal.DecodeError{Err: errors.New("bad")}, want: output.ExitDataError},
		{name: "bad payload", err: fmt.Errorf("loading: %w", &journal.PayloadFormatError{Key: "tags", Reason: "r"}), want: output.ExitDataError},
		{name: "version", err: &journal.VersionError{Version: 16}, want: output.ExitDataError},
		{name: "usage", err: &convert.UsageError{Err: errors.New("template \"x\" not found")}, want: output.ExitUserError},
		{name: "other", err: errors.New("mkdir: permission denied"), want: output.ExitSystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err).Code; got != tt.want {
				t.Errorf("classifyError() code = %d, want %d", got, tt.want)
			}
		})
	}
}
