// Package rispc compiles Intel SPMD (ispc) source modules into a single
// static archive for linking into a host program.
//
// The package drives the external ispc cross-compiler: it translates a
// Config into the exact command line ispc expects, runs the compiler once
// per source file, discovers which per-ISA object variants were actually
// emitted, and bundles everything into one lib<name>.a via the native ar
// tool.
//
// Cross-compilation details are picked up from the environment the way a
// build orchestrator provides them: TARGET (triple, for the architecture),
// PROFILE (debug info), OPT_LEVEL, OUT_DIR, and the ISPC/AR binary
// overrides. For each source file a rispc:rerun-if-changed line is written
// to the build log so an incremental orchestrator knows when to re-run the
// pipeline.
//
// Use the default configuration:
//
//	err := rispc.CompileLibrary("libmandelbrot.a", []string{"src/mandelbrot.ispc"})
//
// or the Config builder for anything more involved:
//
//	err := rispc.NewConfig().
//		File("src/mandelbrot.ispc").
//		DefineValue("FOO", "bar").
//		MathLib(rispc.MathFast).
//		Addressing(rispc.Addr64).
//		Compile("libmandelbrot.a")
package rispc

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CompileLibrary compiles the given ispc files with the default
// configuration and bundles the produced objects into output, which must be
// named lib<name>.a. Cross-compilation state is read from the environment.
func CompileLibrary(output string, files []string) error {
	c := NewConfig()
	for _, f := range files {
		c.File(f)
	}
	return c.Compile(output)
}

// Compile runs the compiler over every configured source file, in order, and
// assembles the produced objects into output inside OUT_DIR. The output name
// must begin with "lib" and end with ".a".
func (c *Config) Compile(output string) error {
	env, err := newProcessEnv()
	if err != nil {
		return err
	}
	return c.compile(env, output)
}

func (c *Config) compile(env env, output string) error {
	// Everything that can be rejected without spawning a process is
	// rejected here first.
	if !strings.HasPrefix(output, "lib") || !strings.HasSuffix(output, ".a") {
		return newConfigurationErrorf("output name %q must match lib<name>.a", output)
	}
	if len(c.files) == 0 {
		return newConfigurationErrorf("no source files configured")
	}
	if err := validateTargets(c.resolveTargets()); err != nil {
		return err
	}

	outDir, err := requireEnv(env, "OUT_DIR")
	if err != nil {
		return err
	}

	// The environment is read once, here; the per-file loop reuses the same
	// resolved invocation.
	base, err := c.compilerCommand(env)
	if err != nil {
		return err
	}

	builder := newArBuilder(env, filepath.Join(outDir, output))
	for _, file := range c.files {
		fmt.Fprintf(env.stdout(), "rispc:rerun-if-changed=%s\n", file)
		obj := objectPath(outDir, file)
		if err := compileObject(env, base, file, obj); err != nil {
			return err
		}
		for _, produced := range discoverObjects(env, obj) {
			builder.addObject(produced)
		}
	}
	return builder.finish()
}

// objectPath maps a source file to its primary object path under outDir,
// preserving the source's relative directory structure.
func objectPath(outDir, file string) string {
	ext := filepath.Ext(file)
	return filepath.Join(outDir, strings.TrimSuffix(file, ext)+".o")
}
