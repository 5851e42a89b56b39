package rispc

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// command describes one external process invocation: the binary to run and
// its fully-ordered argument list.
type command struct {
	path string
	args []string
}

func newExecCmd(env env, cmd *command) *exec.Cmd {
	execCmd := exec.Command(cmd.path, cmd.args...)
	execCmd.Env = env.environ()
	execCmd.Dir = env.getwd()
	return execCmd
}

// withArgs returns a copy of cmd with extra arguments appended. The receiver
// is not modified, so a resolved base invocation can be reused across source
// files.
func (cmd *command) withArgs(args ...string) *command {
	newArgs := make([]string, 0, len(cmd.args)+len(args))
	newArgs = append(newArgs, cmd.args...)
	newArgs = append(newArgs, args...)
	return &command{path: cmd.path, args: newArgs}
}

// runAndCapture spawns cmd and waits for it, buffering both output streams.
// A non-zero exit is reported through exitCode with a nil error; err is
// reserved for failures to execute the process at all.
func runAndCapture(env env, cmd *command) (exitCode int, stdout string, stderr string, err error) {
	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}
	err = env.run(cmd, stdoutBuf, stderrBuf)
	if exitCode, ok := getExitCode(err); ok {
		return exitCode, stdoutBuf.String(), stderrBuf.String(), nil
	}
	return 0, stdoutBuf.String(), stderrBuf.String(), err
}

func printCmd(env env, cmd *command) {
	fmt.Fprintf(env.stdout(), "running: '%s'", cmd.path)
	if len(cmd.args) > 0 {
		fmt.Fprintf(env.stdout(), " '%s'", strings.Join(cmd.args, "' '"))
	}
	io.WriteString(env.stdout(), "\n")
}
