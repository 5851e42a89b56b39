package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/cgaebel/rispc"
)

// manifest is the ispc.toml build description. Pointer fields are tri-state:
// nil leaves the corresponding option to rispc's environment-driven default.
type manifest struct {
	Output  string   `toml:"output"`
	Files   []string `toml:"files"`
	Defines []string `toml:"defines,omitempty"`
	Targets []string `toml:"targets,omitempty"`
	Cpus    []string `toml:"cpus,omitempty"`

	Math           string `toml:"math,omitempty"`
	Arch           string `toml:"arch,omitempty"`
	Addressing     *int   `toml:"addressing,omitempty"`
	OptLevel       *uint  `toml:"opt-level,omitempty"`
	Debug          *bool  `toml:"debug,omitempty"`
	PIC            *bool  `toml:"pic,omitempty"`
	ForceAlignment *uint  `toml:"force-alignment,omitempty"`

	Assertions         *bool `toml:"assertions,omitempty"`
	FMA                *bool `toml:"fma,omitempty"`
	LoopUnroll         *bool `toml:"loop-unroll,omitempty"`
	FastMaskedVload    *bool `toml:"fast-masked-vload,omitempty"`
	FastMath           *bool `toml:"fast-math,omitempty"`
	ForceAlignedMemory *bool `toml:"force-aligned-memory,omitempty"`

	Werror   *bool `toml:"werror,omitempty"`
	Warnings *bool `toml:"warnings,omitempty"`
	WarnPerf *bool `toml:"warn-perf,omitempty"`
}

func loadManifest(path string) (*manifest, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build manifest: %w", err)
	}
	m := &manifest{}
	if err := toml.Unmarshal(buff, m); err != nil {
		return nil, fmt.Errorf("failed to parse build manifest %s: %w", path, err)
	}
	if m.Output == "" {
		return nil, fmt.Errorf("manifest %s does not name an output archive", path)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest %s lists no source files", path)
	}
	return m, nil
}

// config translates the manifest into a rispc build configuration. Enum
// strings are rejected here so a typo fails before the pipeline starts.
func (m *manifest) config() (*rispc.Config, error) {
	cfg := rispc.NewConfig()

	for _, f := range m.Files {
		cfg.File(f)
	}
	for _, def := range m.Defines {
		if name, value, ok := strings.Cut(def, "="); ok {
			cfg.DefineValue(name, value)
		} else {
			cfg.Define(def)
		}
	}
	for _, s := range m.Targets {
		t, err := rispc.ParseTarget(s)
		if err != nil {
			return nil, err
		}
		cfg.Target(t)
	}
	for _, s := range m.Cpus {
		cpu, err := rispc.ParseCpu(s)
		if err != nil {
			return nil, err
		}
		cfg.Cpu(cpu)
	}

	if m.Math != "" {
		math, err := rispc.ParseMath(m.Math)
		if err != nil {
			return nil, err
		}
		cfg.MathLib(math)
	}
	if m.Arch != "" {
		arch, err := rispc.ParseArch(m.Arch)
		if err != nil {
			return nil, err
		}
		cfg.Arch(arch)
	}
	if m.Addressing != nil {
		switch *m.Addressing {
		case 32:
			cfg.Addressing(rispc.Addr32)
		case 64:
			cfg.Addressing(rispc.Addr64)
		default:
			return nil, fmt.Errorf("addressing must be 32 or 64, got %d", *m.Addressing)
		}
	}
	if m.OptLevel != nil {
		cfg.OptLevel(*m.OptLevel)
	}
	if m.Debug != nil {
		cfg.Debug(*m.Debug)
	}
	if m.PIC != nil {
		cfg.PIC(*m.PIC)
	}
	if m.ForceAlignment != nil {
		cfg.ForceAlignment(*m.ForceAlignment)
	}

	if m.Assertions != nil {
		cfg.EnableAssertions(*m.Assertions)
	}
	if m.FMA != nil {
		cfg.EnableFMA(*m.FMA)
	}
	if m.LoopUnroll != nil {
		cfg.EnableLoopUnroll(*m.LoopUnroll)
	}
	if m.FastMaskedVload != nil {
		cfg.EnableFastMaskedVload(*m.FastMaskedVload)
	}
	if m.FastMath != nil {
		cfg.EnableFastMath(*m.FastMath)
	}
	if m.ForceAlignedMemory != nil {
		cfg.ForceAlignedMemory(*m.ForceAlignedMemory)
	}

	if m.Werror != nil {
		cfg.Werror(*m.Werror)
	}
	if m.Warnings != nil {
		cfg.Warn(*m.Warnings)
	}
	if m.WarnPerf != nil {
		cfg.WarnPerf(*m.WarnPerf)
	}

	return cfg, nil
}
