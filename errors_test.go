package rispc

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindsAreDistinguishable(t *testing.T) {
	var cfgErr *ConfigurationError
	var envErr *EnvironmentError

	err := error(newConfigurationErrorf("bad %s", "name"))
	if !errors.As(err, &cfgErr) || errors.As(err, &envErr) {
		t.Errorf("ConfigurationError misclassified: %v", err)
	}
	if err.Error() != "bad name" {
		t.Errorf("Error message incorrect. Got: %s", err.Error())
	}

	err = newEnvironmentErrorf("missing %s", "TARGET")
	if !errors.As(err, &envErr) || errors.As(err, &cfgErr) {
		t.Errorf("EnvironmentError misclassified: %v", err)
	}
}

func TestToolNotFoundErrorSuggestsInstallation(t *testing.T) {
	err := &ToolNotFoundError{Tool: "/opt/ispc/bin/ispc", err: errors.New("no such file or directory")}
	msg := err.Error()
	if !strings.Contains(msg, "/opt/ispc/bin/ispc") {
		t.Errorf("expected the tool path in the message. Got: %s", msg)
	}
	if !strings.Contains(msg, "is `ispc` not installed?") {
		t.Errorf("expected the installation hint with the bare binary name. Got: %s", msg)
	}
}

func TestToolExecutionErrorCarriesStreamsVerbatim(t *testing.T) {
	err := &ToolExecutionError{
		Tool:     "ispc",
		ExitCode: 2,
		Stdout:   "performance note",
		Stderr:   "kernel.ispc:1:1: error",
	}
	msg := err.Error()
	if !strings.Contains(msg, "exit status 2") {
		t.Errorf("expected the exit status. Got: %s", msg)
	}
	if !strings.Contains(msg, "performance note") || !strings.Contains(msg, "kernel.ispc:1:1: error") {
		t.Errorf("expected both captured streams. Got: %s", msg)
	}
}

func TestToolExecutionErrorOmitsEmptyStreams(t *testing.T) {
	err := &ToolExecutionError{Tool: "ar", ExitCode: 1}
	if strings.Contains(err.Error(), "---") {
		t.Errorf("expected no stream blocks for empty captures. Got: %s", err.Error())
	}
}

func TestGetExitCode(t *testing.T) {
	if code, ok := getExitCode(nil); !ok || code != 0 {
		t.Errorf("nil error: expected (0, true). Got: (%d, %v)", code, ok)
	}
	if code, ok := getExitCode(fakeExitError{code: 42}); !ok || code != 42 {
		t.Errorf("exit error: expected (42, true). Got: (%d, %v)", code, ok)
	}
	if code, ok := getExitCode(fmt.Errorf("wrapped: %w", fakeExitError{code: 3})); !ok || code != 3 {
		t.Errorf("wrapped exit error: expected (3, true). Got: (%d, %v)", code, ok)
	}
	if _, ok := getExitCode(errors.New("no exit code")); ok {
		t.Error("plain error: expected ok=false")
	}
}
