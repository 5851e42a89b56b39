package rispc

import "fmt"

// The enumerations below mirror the option vocabulary of the ispc command
// line. Every variant knows its canonical wire string, and the CLI-facing
// Parse functions share the same tables, so adding a variant in one place
// cannot silently omit its translation elsewhere.

// Addressing selects the pointer width of the generated code. ispc addresses
// with 32-bit offsets by default; arrays with more than 2^32 elements need
// Addr64.
type Addressing int

const (
	Addr32 Addressing = iota
	Addr64
)

func (a Addressing) String() string {
	switch a {
	case Addr32:
		return "32"
	case Addr64:
		return "64"
	}
	panic(fmt.Sprintf("unknown addressing mode %d", int(a)))
}

// Arch is the instruction set architecture to compile for. Usually inferred
// from the TARGET triple rather than set explicitly.
type Arch int

const (
	ArchX86 Arch = iota
	ArchX86_64
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX86_64:
		return "x86_64"
	}
	panic(fmt.Sprintf("unknown arch %d", int(a)))
}

// ParseArch maps a wire-format architecture name back to its variant.
func ParseArch(s string) (Arch, error) {
	for _, a := range []Arch{ArchX86, ArchX86_64} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, newConfigurationErrorf("unknown architecture %q", s)
}

// Cpu names a CPU family code may be tuned for. The running CPU picks the
// matching variant at execution time.
type Cpu int

const (
	CpuGeneric Cpu = iota
	CpuAtom
	CpuCore2
	CpuPenryn
	CpuCorei7
	CpuCorei7AVX
	CpuCoreAVXi
	CpuCoreAVX2
	CpuBroadwell
	CpuSlm
)

var cpuNames = map[Cpu]string{
	CpuGeneric:   "generic",
	CpuAtom:      "atom",
	CpuCore2:     "core2",
	CpuPenryn:    "penryn",
	CpuCorei7:    "corei7",
	CpuCorei7AVX: "corei7-avx",
	CpuCoreAVXi:  "core-avx-i",
	CpuCoreAVX2:  "core-avx2",
	CpuBroadwell: "broadwell",
	CpuSlm:       "slm",
}

func (c Cpu) String() string {
	if name, ok := cpuNames[c]; ok {
		return name
	}
	panic(fmt.Sprintf("unknown cpu %d", int(c)))
}

// ParseCpu maps a wire-format CPU name back to its variant.
func ParseCpu(s string) (Cpu, error) {
	for cpu, name := range cpuNames {
		if name == s {
			return cpu, nil
		}
	}
	return 0, newConfigurationErrorf("unknown cpu %q", s)
}

// Math selects which math library the generated code calls out to.
type Math int

const (
	// MathDefault uses ispc's built-in math functions.
	MathDefault Math = iota
	// MathFast uses faster but lower-accuracy functions.
	MathFast
	// MathSvml calls into Intel SVML; the caller must link it in.
	MathSvml
	// MathSystem uses the system math library. Can be very slow.
	MathSystem
)

var mathNames = map[Math]string{
	MathDefault: "default",
	MathFast:    "fast",
	MathSvml:    "svml",
	MathSystem:  "system",
}

func (m Math) String() string {
	if name, ok := mathNames[m]; ok {
		return name
	}
	panic(fmt.Sprintf("unknown math library %d", int(m)))
}

// ParseMath maps a wire-format math library name back to its variant.
func ParseMath(s string) (Math, error) {
	for m, name := range mathNames {
		if name == s {
			return m, nil
		}
	}
	return 0, newConfigurationErrorf("unknown math library %q", s)
}

// isaFamily is the vector-extension generation a Target belongs to. The
// compiler accepts at most one lane width per family.
type isaFamily int

const (
	familySSE2 isaFamily = iota
	familySSE4
	familyAVX1
	familyAVX11
	familyAVX2
)

func (f isaFamily) String() string {
	switch f {
	case familySSE2:
		return "sse2"
	case familySSE4:
		return "sse4"
	case familyAVX1:
		return "avx1"
	case familyAVX11:
		return "avx1.1"
	case familyAVX2:
		return "avx2"
	}
	panic(fmt.Sprintf("unknown ISA family %d", int(f)))
}

// Target selects an ISA family and, optionally, an explicit lane width to
// generate code for.
type Target int

const (
	// SSE2, auto-detected lane width.
	TargetSSE2 Target = iota
	TargetSSE2I32x4
	TargetSSE2I32x8

	// SSE4, auto-detected lane width.
	TargetSSE4
	TargetSSE4I32x4
	TargetSSE4I32x8
	TargetSSE4I16x8
	TargetSSE4I8x16

	// AVX 1.0, auto-detected lane width.
	TargetAVX1
	TargetAVX1I32x4
	TargetAVX1I32x8
	TargetAVX1I32x16
	TargetAVX1I64x4

	// AVX 1.1, auto-detected lane width.
	TargetAVX11
	TargetAVX11I32x8
	TargetAVX11I32x16
	TargetAVX11I64x4

	// AVX 2.0, auto-detected lane width.
	TargetAVX2
	TargetAVX2I32x8
	TargetAVX2I32x16
	TargetAVX2I64x4
)

type targetInfo struct {
	name   string
	family isaFamily
}

var targetInfos = map[Target]targetInfo{
	TargetSSE2:      {"sse2", familySSE2},
	TargetSSE2I32x4: {"sse2-i32x4", familySSE2},
	TargetSSE2I32x8: {"sse2-i32x8", familySSE2},

	TargetSSE4:      {"sse4", familySSE4},
	TargetSSE4I32x4: {"sse4-i32x4", familySSE4},
	TargetSSE4I32x8: {"sse4-i32x8", familySSE4},
	TargetSSE4I16x8: {"sse4-i16x8", familySSE4},
	TargetSSE4I8x16: {"sse4-i8x16", familySSE4},

	TargetAVX1:       {"avx1", familyAVX1},
	TargetAVX1I32x4:  {"avx1-i32x4", familyAVX1},
	TargetAVX1I32x8:  {"avx1-i32x8", familyAVX1},
	TargetAVX1I32x16: {"avx1-i32x16", familyAVX1},
	TargetAVX1I64x4:  {"avx1-i64x4", familyAVX1},

	TargetAVX11:       {"avx1.1", familyAVX11},
	TargetAVX11I32x8:  {"avx1.1-i32x8", familyAVX11},
	TargetAVX11I32x16: {"avx1.1-i32x16", familyAVX11},
	TargetAVX11I64x4:  {"avx1.1-i64x4", familyAVX11},

	TargetAVX2:       {"avx2", familyAVX2},
	TargetAVX2I32x8:  {"avx2-i32x8", familyAVX2},
	TargetAVX2I32x16: {"avx2-i32x16", familyAVX2},
	TargetAVX2I64x4:  {"avx2-i64x4", familyAVX2},
}

func (t Target) String() string {
	if info, ok := targetInfos[t]; ok {
		return info.name
	}
	panic(fmt.Sprintf("unknown target %d", int(t)))
}

func (t Target) family() isaFamily {
	if info, ok := targetInfos[t]; ok {
		return info.family
	}
	panic(fmt.Sprintf("unknown target %d", int(t)))
}

// ParseTarget maps a wire-format target name back to its variant.
func ParseTarget(s string) (Target, error) {
	for target, info := range targetInfos {
		if info.name == s {
			return target, nil
		}
	}
	return 0, newConfigurationErrorf("unknown target %q", s)
}

// defaultTargets is the five-tier baseline used when no target is configured,
// one auto-width entry per ISA family.
var defaultTargets = []Target{TargetSSE2, TargetSSE4, TargetAVX1, TargetAVX11, TargetAVX2}

// validateTargets enforces the one-width-per-ISA-family contract before the
// compiler is invoked, turning an otherwise opaque compiler failure into a
// clear configuration diagnostic.
func validateTargets(targets []Target) error {
	seen := make(map[isaFamily]Target, len(targets))
	for _, t := range targets {
		if prev, ok := seen[t.family()]; ok {
			return newConfigurationErrorf(
				"targets %s and %s both select the %s ISA family; at most one width per family is allowed",
				prev, t, t.family())
		}
		seen[t.family()] = t
	}
	return nil
}
