package session

import (
	"fmt"

	"kiln/internal/crateconfig"
)

// OutputKind selects what the compilation produces.
type OutputKind uint8

const (
	OutputNone OutputKind = iota
	OutputAssembly
	OutputObject
	OutputBitcode
	OutputExecutable
)

func (k OutputKind) String() string {
	switch k {
	case OutputNone:
		return "none"
	case OutputAssembly:
		return "assembly"
	case OutputObject:
		return "object"
	case OutputBitcode:
		return "bitcode"
	case OutputExecutable:
		return "executable"
	default:
		panic(fmt.Sprintf("session: invalid output kind %d", k))
	}
}

// Options are fixed for the whole compilation.
type Options struct {
	Shared         bool
	OptLevel       int
	DebugInfo      bool
	Verify         bool
	RunTypestate   bool
	SaveTemps      bool
	Stats          bool
	TimePasses     bool
	TimeLLVMPasses bool
	PrintCommands  bool
	Output         OutputKind

	LibrarySearchPaths []string
	Sysroot            string
	Cfg                crateconfig.Set
}

// DefaultOptions returns the options of a plain `kilnc file.rs` run.
func DefaultOptions() Options {
	return Options{
		Verify:       true,
		RunTypestate: true,
		Output:       OutputExecutable,
		Sysroot:      ".",
	}
}
