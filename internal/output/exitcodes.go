package output

import "errors"

// Exit codes:
// 0 = Success (including runs where some entries failed)
// 1 = User error (bad flags, missing backup file, unknown template)
// 2 = System error (output directory or file I/O failed)
// 3 = Data error (not a Daylio archive, corrupt payload, unsupported version)
// 4 = Every attempted entry failed
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitDataError   = 3
	ExitAllFailed   = 4
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewUserErrorWithCause creates a user error wrapping an underlying cause.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message, Cause: cause}
}

// NewSystemError creates an error for system failures (exit code 2).
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// NewDataError creates an error for unreadable backup data (exit code 3).
// Use for: not a zip, missing payload, bad base64/JSON, unsupported version.
func NewDataError(message string, cause error) *ExitError {
	return &ExitError{Code: ExitDataError, Message: message, Cause: cause}
}

// NewAllFailedError creates the error returned when no entry of a batch
// could be converted (exit code 4).
func NewAllFailedError(message string) *ExitError {
	return &ExitError{Code: ExitAllFailed, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUserError
}
