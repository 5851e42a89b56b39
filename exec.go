package rispc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// runTool spawns cmd, echoes the invocation and its captured streams to the
// build log, and classifies the outcome: nil on exit 0, ToolNotFoundError
// when the binary could not be located or executed, ToolExecutionError on a
// non-zero exit.
func runTool(env env, cmd *command) error {
	printCmd(env, cmd)
	exitCode, stdout, stderr, err := runAndCapture(env, cmd)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
			return &ToolNotFoundError{Tool: cmd.path, err: err}
		}
		return fmt.Errorf("failed to execute %s: %w", cmd.path, err)
	}
	fmt.Fprintf(env.stdout(), "exit status %d\n", exitCode)
	printStream(env, "stdout", stdout)
	printStream(env, "stderr", stderr)
	if exitCode != 0 {
		return &ToolExecutionError{
			Tool:     cmd.path,
			ExitCode: exitCode,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}
	return nil
}

func printStream(env env, name, content string) {
	if content == "" {
		return
	}
	fmt.Fprintf(env.stdout(), "\n--- %s ---\n%s\n--- end %s ---\n\n", name, content, name)
}

// compileObject invokes the compiler once for a single source file, writing
// the primary object to dst. The compiler may additionally write ISA-suffixed
// variants next to dst; discoverObjects reconciles those afterwards.
func compileObject(env env, base *command, file string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return fmt.Errorf("failed to create object directory for %s: %w", dst, err)
	}
	return runTool(env, base.withArgs(file, "-o", dst))
}
