package cli

import (
	"errors"

	"github.com/yaklabco/luaufmt/pkg/runner"
)

// Exit codes for luaufmt.
const (
	// ExitSuccess indicates every file is formatted.
	ExitSuccess = 0

	// ExitChangesPending indicates check found files that need formatting.
	ExitChangesPending = 1

	// ExitFormatErrors indicates files that could not be read, formatted or written.
	ExitFormatErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

// Sentinel errors that map to exit codes.
var (
	// ErrChangesPending is returned by check when files need formatting.
	ErrChangesPending = errors.New("files need formatting")

	// ErrFormatIncomplete is returned when some files failed or had conflicting edits.
	ErrFormatIncomplete = errors.New("some files could not be formatted")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("configuration error")

	// ErrUsage wraps invalid arguments.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a run. With check set,
// pending changes fail the run.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitFormatErrors
	case check && result.HasChanges():
		return ExitChangesPending
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrChangesPending):
		return ExitChangesPending
	case errors.Is(err, ErrFormatIncomplete):
		return ExitFormatErrors
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	default:
		return ExitInternalError
	}
}

// IsResultError reports whether err only signals the outcome of a run, so
// it needs no further logging.
func IsResultError(err error) bool {
	return errors.Is(err, ErrChangesPending) || errors.Is(err, ErrFormatIncomplete)
}

func errorForExitCode(code int) error {
	switch code {
	case ExitChangesPending:
		return ErrChangesPending
	case ExitFormatErrors:
		return ErrFormatIncomplete
	default:
		return nil
	}
}
