package rispc

import (
	"fmt"
	"strconv"
	"strings"
)

type definition struct {
	name     string
	value    string
	hasValue bool
}

// Config accumulates build options for one ispc compilation. The zero-ish
// value from NewConfig matches the compiler's own defaults; setters only
// record caller intent and never validate. Validation and environment-driven
// defaulting happen once, when Compile translates the configuration into a
// compiler invocation.
type Config struct {
	addressing         *Addressing
	architecture       *Arch
	cpus               []Cpu
	definitions        []definition
	forceAlignment     *uint
	debug              *bool
	mathLib            Math
	files              []string
	optLevel           *uint
	assertions         bool
	fma                bool
	loopUnroll         bool
	fastMaskedVload    bool
	fastMath           bool
	forceAlignedMemory bool
	pic                *bool
	targets            []Target
	werror             bool
	warnings           bool
	wperf              bool
}

// NewConfig returns a blank configuration. The builder is finished with the
// Compile method.
func NewConfig() *Config {
	return &Config{
		mathLib:    MathDefault,
		assertions: true,
		fma:        true,
		loopUnroll: true,
		werror:     true,
		warnings:   true,
		wperf:      true,
	}
}

// Addressing sets the addressing mode of the compiled code.
func (c *Config) Addressing(a Addressing) *Config {
	c.addressing = &a
	return c
}

// Arch overrides the target architecture. By default it is inferred from the
// TARGET triple in the environment.
func (c *Config) Arch(a Arch) *Config {
	c.architecture = &a
	return c
}

// Cpu adds an entry to the target CPU set. Code is generated for every CPU
// in the set and the best match is picked at run time. An empty set lets the
// compiler derive CPUs from the selected targets.
func (c *Config) Cpu(cpu Cpu) *Config {
	c.cpus = append(c.cpus, cpu)
	return c
}

// Define adds a -D preprocessor definition with no value. Duplicates are
// allowed and preserved in order.
func (c *Config) Define(name string) *Config {
	c.definitions = append(c.definitions, definition{name: name})
	return c
}

// DefineValue adds a -D name=value preprocessor definition.
func (c *Config) DefineValue(name, value string) *Config {
	c.definitions = append(c.definitions, definition{name: name, value: value, hasValue: true})
	return c
}

// ForceAlignment overrides the alignment the compiler assumes for memory
// operations.
func (c *Config) ForceAlignment(align uint) *Config {
	c.forceAlignment = &align
	return c
}

// Debug turns generation of debug info on or off. Without an explicit value
// it is inferred from the PROFILE environment variable.
func (c *Config) Debug(val bool) *Config {
	c.debug = &val
	return c
}

// MathLib selects the math library the generated code calls out to.
func (c *Config) MathLib(m Math) *Config {
	c.mathLib = m
	return c
}

// File adds a source file to the set compiled into the output archive.
func (c *Config) File(path string) *Config {
	c.files = append(c.files, path)
	return c
}

// OptLevel sets the optimization level. Values above 3 are clamped to 3.
// Without an explicit value the level is read from OPT_LEVEL.
func (c *Config) OptLevel(level uint) *Config {
	c.optLevel = &level
	return c
}

// EnableAssertions turns assertions in the generated code on or off.
// Enabled by default.
func (c *Config) EnableAssertions(val bool) *Config {
	c.assertions = val
	return c
}

// EnableFMA turns generation of fused multiply-add instructions on or off.
// Enabled by default.
func (c *Config) EnableFMA(val bool) *Config {
	c.fma = val
	return c
}

// EnableLoopUnroll turns loop unrolling on or off. Enabled by default.
func (c *Config) EnableLoopUnroll(val bool) *Config {
	c.loopUnroll = val
	return c
}

// EnableFastMaskedVload enables faster masked vector loads on SSE. Reads may
// run off the end of arrays. Disabled by default.
func (c *Config) EnableFastMaskedVload(val bool) *Config {
	c.fastMaskedVload = val
	return c
}

// EnableFastMath enables non-IEEE-754-compliant math. Faster, but inf/NaN
// corner cases are not handled properly. Disabled by default.
func (c *Config) EnableFastMath(val bool) *Config {
	c.fastMath = val
	return c
}

// ForceAlignedMemory makes the compiler emit aligned vector loads and
// stores. Undefined behavior on misaligned buffers. Disabled by default.
func (c *Config) ForceAlignedMemory(val bool) *Config {
	c.forceAlignedMemory = val
	return c
}

// PIC turns position-independent code generation on or off. Without an
// explicit value it defaults to true on x86_64 and false on x86.
func (c *Config) PIC(val bool) *Config {
	c.pic = &val
	return c
}

// Target adds a target to generate code for. An empty set means the default
// five-tier list covering one auto-width entry per ISA family. At most one
// width per family may be selected.
func (c *Config) Target(t Target) *Config {
	c.targets = append(c.targets, t)
	return c
}

// Werror makes the compiler treat warnings as errors. Enabled by default.
func (c *Config) Werror(val bool) *Config {
	c.werror = val
	return c
}

// Warn turns compiler warnings on or off. Enabled by default.
func (c *Config) Warn(val bool) *Config {
	c.warnings = val
	return c
}

// WarnPerf turns warnings about suboptimal code performance on or off.
// Enabled by default.
func (c *Config) WarnPerf(val bool) *Config {
	c.wperf = val
	return c
}

const maxOptLevel = 3

func (c *Config) resolveOptLevel(env env) (uint, error) {
	if c.optLevel != nil {
		if *c.optLevel > maxOptLevel {
			return maxOptLevel, nil
		}
		return *c.optLevel, nil
	}
	val, err := requireEnv(env, "OPT_LEVEL")
	if err != nil {
		return 0, err
	}
	level, parseErr := strconv.ParseUint(val, 10, 32)
	if parseErr != nil {
		return 0, newEnvironmentErrorf("OPT_LEVEL %q does not parse as a non-negative integer", val)
	}
	if level > maxOptLevel {
		return maxOptLevel, nil
	}
	return uint(level), nil
}

func (c *Config) resolveDebug(env env) (bool, error) {
	if c.debug != nil {
		return *c.debug, nil
	}
	profile, err := requireEnv(env, "PROFILE")
	if err != nil {
		return false, err
	}
	return profile == "debug", nil
}

func (c *Config) resolveArch(env env) (Arch, error) {
	if c.architecture != nil {
		return *c.architecture, nil
	}
	target, err := requireEnv(env, "TARGET")
	if err != nil {
		return 0, err
	}
	switch {
	case strings.Contains(target, "x86_64"):
		return ArchX86_64, nil
	case strings.Contains(target, "i686"), strings.Contains(target, "i586"):
		return ArchX86, nil
	}
	return 0, newEnvironmentErrorf("ispc can only target x86 or x86_64; the current target is %q", target)
}

func (c *Config) resolvePIC(arch Arch) bool {
	if c.pic != nil {
		return *c.pic
	}
	return arch == ArchX86_64
}

func (c *Config) resolveTargets() []Target {
	if len(c.targets) > 0 {
		return c.targets
	}
	return defaultTargets
}

// joinedListFlag renders an ordered value list as one comma-joined flag,
// e.g. --target=sse2,avx2.
func joinedListFlag(flag string, values []string) string {
	return flag + strings.Join(values, ",")
}

// compilerCommand translates the configuration into the base compiler
// invocation shared by every source file. The flag order is fixed so that
// the same configuration always produces the same command line; the compiler
// itself does not care.
func (c *Config) compilerCommand(env env) (*command, error) {
	path := "ispc"
	if override, ok := logGetenv(env, "ISPC"); ok {
		path = override
	}

	var args []string

	if c.addressing != nil {
		args = append(args, "--addressing="+c.addressing.String())
	}

	arch, err := c.resolveArch(env)
	if err != nil {
		return nil, err
	}
	args = append(args, "--arch="+arch.String())

	args = append(args, "--colored-output")

	if len(c.cpus) > 0 {
		names := make([]string, len(c.cpus))
		for i, cpu := range c.cpus {
			names[i] = cpu.String()
		}
		args = append(args, joinedListFlag("--cpu=", names))
	}

	for _, def := range c.definitions {
		if def.hasValue {
			args = append(args, fmt.Sprintf("-D%s=%s", def.name, def.value))
		} else {
			args = append(args, "-D"+def.name)
		}
	}

	args = append(args, "--emit-obj")

	if c.forceAlignment != nil {
		args = append(args, fmt.Sprintf("--force-alignment=%d", *c.forceAlignment))
	}

	debug, err := c.resolveDebug(env)
	if err != nil {
		return nil, err
	}
	if debug {
		args = append(args, "-g")
	}

	args = append(args, "--math-lib="+c.mathLib.String())

	optLevel, err := c.resolveOptLevel(env)
	if err != nil {
		return nil, err
	}
	args = append(args, fmt.Sprintf("-O%d", optLevel))

	// Feature toggles appear only when they deviate from their defaults.
	if !c.assertions {
		args = append(args, "--opt=disable-assertions")
	}
	if !c.fma {
		args = append(args, "--opt=disable-fma")
	}
	if !c.loopUnroll {
		args = append(args, "--opt=disable-loop-unroll")
	}
	if c.fastMaskedVload {
		args = append(args, "--opt=fast-masked-vload")
	}
	if c.fastMath {
		args = append(args, "--opt=fast-math")
	}
	if c.forceAlignedMemory {
		args = append(args, "--opt=force-aligned-memory")
	}

	if c.resolvePIC(arch) {
		args = append(args, "--pic")
	}

	targets := c.resolveTargets()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	args = append(args, joinedListFlag("--target=", names))

	if c.werror {
		args = append(args, "--werror")
	}
	if !c.warnings {
		args = append(args, "--woff")
	}
	if !c.wperf {
		args = append(args, "--wno-perf")
	}

	return &command{path: path, args: args}, nil
}
