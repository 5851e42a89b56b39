package rispc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// testContext implements env against synthetic state: a temp dir, an
// in-memory variable list, and a run hook instead of real processes. Every
// spawned command is recorded for verification.
type testContext struct {
	t         *testing.T
	tempDir   string
	env       []string
	cfg       *Config
	cmds      []*command
	runHook   func(cmd *command, stdout io.Writer, stderr io.Writer) error
	stdoutBuf bytes.Buffer
	stderrBuf bytes.Buffer
}

func withTestContext(t *testing.T, work func(ctx *testContext)) {
	t.Parallel()
	ctx := testContext{
		t:       t,
		tempDir: t.TempDir(),
		cfg:     NewConfig(),
	}
	// A plausible release-mode cross-compilation environment; individual
	// tests override what they care about.
	ctx.env = []string{
		"OUT_DIR=" + ctx.tempDir,
		"TARGET=x86_64-unknown-linux-gnu",
		"PROFILE=release",
		"OPT_LEVEL=2",
	}
	work(&ctx)
}

var _ env = (*testContext)(nil)

func (ctx *testContext) getenv(key string) (string, bool) {
	for i := len(ctx.env) - 1; i >= 0; i-- {
		entry := ctx.env[i]
		if strings.HasPrefix(entry, key+"=") {
			return entry[len(key)+1:], true
		}
	}
	return "", false
}

func (ctx *testContext) environ() []string {
	return ctx.env
}

func (ctx *testContext) getwd() string {
	return ctx.tempDir
}

func (ctx *testContext) stdout() io.Writer {
	return &ctx.stdoutBuf
}

func (ctx *testContext) stderr() io.Writer {
	return &ctx.stderrBuf
}

func (ctx *testContext) run(cmd *command, stdout io.Writer, stderr io.Writer) error {
	ctx.cmds = append(ctx.cmds, cmd)
	if ctx.runHook != nil {
		return ctx.runHook(cmd, stdout, stderr)
	}
	return nil
}

func (ctx *testContext) setenv(key, value string) {
	ctx.env = append(ctx.env, key+"="+value)
}

func (ctx *testContext) unsetenv(key string) {
	kept := ctx.env[:0]
	for _, entry := range ctx.env {
		if !strings.HasPrefix(entry, key+"=") {
			kept = append(kept, entry)
		}
	}
	ctx.env = kept
}

func (ctx *testContext) must(cmd *command, err error) *command {
	if err != nil {
		ctx.t.Fatalf("Expected no error, but got %s", err)
	}
	return cmd
}

func (ctx *testContext) writeFile(fullFileName string, fileContent string) {
	if !filepath.IsAbs(fullFileName) {
		fullFileName = filepath.Join(ctx.tempDir, fullFileName)
	}
	if err := os.MkdirAll(filepath.Dir(fullFileName), 0777); err != nil {
		ctx.t.Fatal(err)
	}
	if err := os.WriteFile(fullFileName, []byte(fileContent), 0666); err != nil {
		ctx.t.Fatal(err)
	}
}

// emulateCompiler installs a run hook that fakes a successful compiler run
// by writing the primary object named by -o plus one variant per given ISA
// suffix. Commands without a -o flag (the archiver) succeed without side
// effects.
func (ctx *testContext) emulateCompiler(suffixes ...string) {
	ctx.runHook = func(cmd *command, stdout io.Writer, stderr io.Writer) error {
		dst := outputArg(cmd)
		if dst == "" {
			return nil
		}
		ext := filepath.Ext(dst)
		stem := strings.TrimSuffix(dst, ext)
		ctx.writeFile(dst, "obj")
		for _, suffix := range suffixes {
			ctx.writeFile(stem+suffix+ext, "obj")
		}
		return nil
	}
}

// outputArg extracts the destination path following a -o flag, or "" if the
// command has none.
func outputArg(cmd *command) string {
	for i, arg := range cmd.args {
		if arg == "-o" && i+1 < len(cmd.args) {
			return cmd.args[i+1]
		}
	}
	return ""
}

// fakeExitError stands in for a process that ran and exited non-zero.
type fakeExitError struct {
	code int
}

func (err fakeExitError) Error() string {
	return fmt.Sprintf("exit status %d", err.code)
}

func (err fakeExitError) ExitCode() int {
	return err.code
}

func verifyPath(cmd *command, expectedRegex string) error {
	compiledRegex := regexp.MustCompile(matchFullString(expectedRegex))
	if !compiledRegex.MatchString(cmd.path) {
		return fmt.Errorf("path does not match %s. Actual %s", expectedRegex, cmd.path)
	}
	return nil
}

func verifyArgCount(cmd *command, expectedCount int, expectedRegex string) error {
	compiledRegex := regexp.MustCompile(matchFullString(expectedRegex))
	count := 0
	for _, arg := range cmd.args {
		if compiledRegex.MatchString(arg) {
			count++
		}
	}
	if count != expectedCount {
		return fmt.Errorf("expected %d matches for arg %s. All args: %s",
			expectedCount, expectedRegex, cmd.args)
	}
	return nil
}

func verifyArgOrder(cmd *command, expectedRegexes ...string) error {
	compiledRegexes := []*regexp.Regexp{}
	for _, regex := range expectedRegexes {
		compiledRegexes = append(compiledRegexes, regexp.MustCompile(matchFullString(regex)))
	}
	expectedArgIndex := 0
	for _, arg := range cmd.args {
		if expectedArgIndex == len(compiledRegexes) {
			break
		} else if compiledRegexes[expectedArgIndex].MatchString(arg) {
			expectedArgIndex++
		}
	}
	if expectedArgIndex != len(expectedRegexes) {
		return fmt.Errorf("expected args %s in order. All args: %s",
			expectedRegexes, cmd.args)
	}
	return nil
}

func matchFullString(regex string) string {
	return "^" + regex + "$"
}
