package rispc

import (
	"fmt"
	"io"
	"os"
)

// env abstracts the process environment so that option resolution and tool
// invocation can be tested against synthetic values without mutating real
// process state.
type env interface {
	getenv(key string) (string, bool)
	environ() []string
	getwd() string
	stdout() io.Writer
	stderr() io.Writer
	run(cmd *command, stdout io.Writer, stderr io.Writer) error
}

type processEnv struct {
	wd string
}

func newProcessEnv() (env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to read working directory: %w", err)
	}
	return &processEnv{wd: wd}, nil
}

var _ env = (*processEnv)(nil)

func (env *processEnv) getenv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (env *processEnv) environ() []string {
	return os.Environ()
}

func (env *processEnv) getwd() string {
	return env.wd
}

func (env *processEnv) stdout() io.Writer {
	return os.Stdout
}

func (env *processEnv) stderr() io.Writer {
	return os.Stderr
}

func (env *processEnv) run(cmd *command, stdout io.Writer, stderr io.Writer) error {
	execCmd := newExecCmd(env, cmd)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr
	return execCmd.Run()
}

// logGetenv reads one environment variable through env and records the read
// on the build log, so every environment-driven default is diagnosable.
func logGetenv(env env, key string) (string, bool) {
	val, ok := env.getenv(key)
	if ok {
		fmt.Fprintf(env.stdout(), "%s = %q\n", key, val)
	} else {
		fmt.Fprintf(env.stdout(), "%s is unset\n", key)
	}
	return val, ok
}

// requireEnv is logGetenv for variables the build cannot proceed without.
func requireEnv(env env, key string) (string, error) {
	val, ok := logGetenv(env, key)
	if !ok {
		return "", newEnvironmentErrorf("environment variable %q is not defined", key)
	}
	return val, nil
}
