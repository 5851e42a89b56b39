package rispc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// All pipeline failures are fatal: the first error aborts the remaining
// build with no retries and no partial archive. The types below exist so
// callers can tell the four failure classes apart with errors.As.

// ConfigurationError reports an invalid build configuration. It is always
// detected before any external process is spawned.
type ConfigurationError struct {
	msg string
}

var _ error = (*ConfigurationError)(nil)

func (err *ConfigurationError) Error() string {
	return err.msg
}

func newConfigurationErrorf(format string, v ...interface{}) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, v...)}
}

// EnvironmentError reports a required environment variable that is missing,
// unparsable, or names an unsupported target.
type EnvironmentError struct {
	msg string
}

var _ error = (*EnvironmentError)(nil)

func (err *EnvironmentError) Error() string {
	return err.msg
}

func newEnvironmentErrorf(format string, v ...interface{}) *EnvironmentError {
	return &EnvironmentError{msg: fmt.Sprintf(format, v...)}
}

// ToolNotFoundError reports that an external tool binary could not be
// located or executed.
type ToolNotFoundError struct {
	Tool string
	err  error
}

var _ error = (*ToolNotFoundError)(nil)

func (err *ToolNotFoundError) Error() string {
	return fmt.Sprintf("failed to execute %s: %s\nis `%s` not installed?",
		err.Tool, err.err, filepath.Base(err.Tool))
}

func (err *ToolNotFoundError) Unwrap() error {
	return err.err
}

// ToolExecutionError reports that an external tool ran but exited non-zero.
// The captured streams are carried verbatim so the diagnostic is complete
// without re-running the tool.
type ToolExecutionError struct {
	Tool     string
	ExitCode int
	Stdout   string
	Stderr   string
}

var _ error = (*ToolExecutionError)(nil)

func (err *ToolExecutionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s did not execute successfully, got exit status %d", err.Tool, err.ExitCode)
	if err.Stdout != "" {
		fmt.Fprintf(&sb, "\n--- stdout ---\n%s\n--- end stdout ---", err.Stdout)
	}
	if err.Stderr != "" {
		fmt.Fprintf(&sb, "\n--- stderr ---\n%s\n--- end stderr ---", err.Stderr)
	}
	return sb.String()
}

type exitCoder interface {
	ExitCode() int
}

// getExitCode extracts the exit status from a process error. Both ok and an
// exit code of zero are reported for a nil error.
func getExitCode(err error) (exitCode int, ok bool) {
	if err == nil {
		return 0, true
	}
	var exitErr exitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
