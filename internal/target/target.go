// Package target maps a platform triple onto the closed set of operating
// systems and architectures the compiler can produce code for.
package target

import (
	"strings"

	"kiln/internal/diag"
)

// OS is a supported target operating system. There is no "unknown" value:
// an unrecognised triple never produces a Config.
type OS uint8

const (
	OSWin32 OS = iota + 1
	OSMacOS
	OSLinux
)

func (o OS) String() string {
	switch o {
	case OSWin32:
		return "win32"
	case OSMacOS:
		return "macos"
	case OSLinux:
		return "linux"
	}
	return "invalid"
}

// Arch is a supported target architecture.
type Arch uint8

const (
	ArchX86 Arch = iota + 1
	ArchX64
	ArchArm
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX64:
		return "x86_64"
	case ArchArm:
		return "arm"
	}
	return "invalid"
}

// Fixed numeric type widths, in bits.
const (
	IntWidth   = 32
	UintWidth  = 32
	FloatWidth = 64
)

// MachineFlag is the machine-width flag handed to every native tool.
const MachineFlag = "-m32"

// Config is the immutable description of the compilation target.
type Config struct {
	Triple     string
	OS         OS
	Arch       Arch
	IntWidth   int
	UintWidth  int
	FloatWidth int
}

var osRules = []struct {
	needles []string
	os      OS
}{
	{[]string{"win32", "mingw32"}, OSWin32},
	{[]string{"darwin"}, OSMacOS},
	{[]string{"linux"}, OSLinux},
}

// i686 has to be matched before anything that could also contain "86".
var archRules = []struct {
	needles []string
	arch    Arch
}{
	{[]string{"i386", "i486", "i586", "i686", "i786"}, ArchX86},
	{[]string{"x86_64"}, ArchX64},
	{[]string{"arm", "xscale"}, ArchArm},
}

// ResolveOS picks the operating system named by triple. First match wins.
func ResolveOS(triple string) (OS, error) {
	for _, rule := range osRules {
		if containsAny(triple, rule.needles) {
			return rule.os, nil
		}
	}
	return 0, diag.Fatalf("unknown operating system in target %q", triple)
}

// ResolveArch picks the architecture named by triple. First match wins.
func ResolveArch(triple string) (Arch, error) {
	for _, rule := range archRules {
		if containsAny(triple, rule.needles) {
			return rule.arch, nil
		}
	}
	return 0, diag.Fatalf("unknown architecture in target %q", triple)
}

// Resolve builds the target Config for triple.
func Resolve(triple string) (*Config, error) {
	os, err := ResolveOS(triple)
	if err != nil {
		return nil, err
	}
	arch, err := ResolveArch(triple)
	if err != nil {
		return nil, err
	}
	return &Config{
		Triple:     triple,
		OS:         os,
		Arch:       arch,
		IntWidth:   IntWidth,
		UintWidth:  UintWidth,
		FloatWidth: FloatWidth,
	}, nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// LibC returns the C library shared object linked on os.
func LibC(os OS) string {
	switch os {
	case OSWin32:
		return "msvcrt.dll"
	case OSMacOS:
		return "libc.dylib"
	case OSLinux:
		return "libc.so.6"
	default:
		return "libc.so"
	}
}

// CrateFileName returns the file name a crate called name is installed
// under on os.
func CrateFileName(os OS, name string) string {
	switch os {
	case OSWin32:
		return name + ".dll"
	case OSMacOS:
		return "lib" + name + ".dylib"
	case OSLinux:
		return "lib" + name + ".so"
	default:
		return "lib" + name + ".so"
	}
}
