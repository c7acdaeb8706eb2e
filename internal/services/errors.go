package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks missing or invalid invocation input. It is the only
	// marker that terminates a run with a nonzero exit.
	ErrInput = errors.New("input error")
	// ErrDependencyUnavailable marks optional tooling that is absent.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrDependencyMissing marks required tooling that is absent.
	ErrDependencyMissing = errors.New("required dependency missing")
	ErrExternalProcess   = errors.New("external process failure")
	ErrTimeout           = errors.New("timeout")
	ErrCatastrophic      = errors.New("fallback transcription failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalProcess
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error to the process exit status. Recoverable failures
// never reach the caller, so any returned error is fatal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
