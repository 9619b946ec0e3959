package main

import (
	"path/filepath"

	"github.com/spf13/pflag"

	"kiln/internal/crateconfig"
	"kiln/internal/diag"
	"kiln/internal/session"
	"kiln/internal/target"
)

// cliFlags holds the compiler flags of one invocation.
type cliFlags struct {
	output       string
	glue         bool
	shared       bool
	pretty       string
	ls           bool
	libraryPaths []string
	noVerify     bool
	parseOnly    bool
	debugInfo    bool
	optLevel     string
	optimize     bool
	assembly     bool
	compileOnly  bool
	emitLLVM     bool
	saveTemps    bool
	stats        bool
	cfg          []string
	timePasses   bool
	timeLLVM     bool
	sysroot      string
	noTypestate  bool

	target        string
	printCommands bool
	version       bool
}

func (f *cliFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.version, "version", "v", false, "print version info and exit")
	fs.StringVarP(&f.output, "output", "o", "", "write output to `filename`")
	fs.BoolVar(&f.glue, "glue", false, "generate the glue bitcode object")
	fs.BoolVar(&f.shared, "shared", false, "compile a shared-library crate")
	fs.StringVar(&f.pretty, "pretty", "", "pretty-print the input instead of compiling (normal|typed|identified)")
	fs.Lookup("pretty").NoOptDefVal = "normal"
	fs.BoolVar(&f.ls, "ls", false, "list the symbols defined by a crate file")
	fs.StringArrayVarP(&f.libraryPaths, "library-path", "L", nil, "add a directory to the library search path")
	fs.BoolVar(&f.noVerify, "noverify", false, "suppress the LLVM verification step")
	fs.BoolVar(&f.parseOnly, "parse-only", false, "parse only; do not compile, assemble, or link")
	fs.BoolVarP(&f.debugInfo, "debuginfo", "g", false, "produce debug info")
	fs.StringVar(&f.optLevel, "OptLevel", "", "optimize with possible levels 0-3")
	fs.BoolVarP(&f.optimize, "optimize", "O", false, "equivalent to --OptLevel=2")
	fs.BoolVarP(&f.assembly, "assembly", "S", false, "compile only; do not assemble or link")
	fs.BoolVarP(&f.compileOnly, "compile-only", "c", false, "compile and assemble, but do not link")
	fs.BoolVar(&f.emitLLVM, "emit-llvm", false, "produce an LLVM bitcode file")
	fs.BoolVar(&f.saveTemps, "save-temps", false, "write intermediate files in addition to normal output")
	fs.BoolVar(&f.stats, "stats", false, "report phase timings after compiling")
	fs.StringArrayVar(&f.cfg, "cfg", nil, "add a configuration predicate")
	fs.BoolVar(&f.timePasses, "time-passes", false, "time the individual phases of the compiler")
	fs.BoolVar(&f.timeLLVM, "time-llvm-passes", false, "time the individual phases of the LLVM backend")
	fs.StringVar(&f.sysroot, "sysroot", "", "override the system root (default: the compiler's directory)")
	fs.BoolVar(&f.noTypestate, "no-typestate", false, "don't run the typestate pass")
	fs.StringVar(&f.target, "target", "", "target triple (default: the host)")
	fs.BoolVar(&f.printCommands, "print-commands", false, "print every external command before running it")
}

// outputKind applies the precedence parse-only, -S, -c, --emit-llvm.
func (f *cliFlags) outputKind() session.OutputKind {
	switch {
	case f.parseOnly:
		return session.OutputNone
	case f.assembly:
		return session.OutputAssembly
	case f.compileOnly:
		return session.OutputObject
	case f.emitLLVM:
		return session.OutputBitcode
	default:
		return session.OutputExecutable
	}
}

// optimization resolves -O and --OptLevel. optLevelSet reports whether
// --OptLevel appeared on the command line.
func (f *cliFlags) optimization(optLevelSet bool) (int, error) {
	if f.optimize {
		if optLevelSet {
			return 0, diag.Fatalf("-O and --OptLevel both provided")
		}
		return 2, nil
	}
	if !optLevelSet {
		return 0, nil
	}
	switch f.optLevel {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	case "3":
		return 3, nil
	}
	return 0, diag.Fatalf("optimization level needs to be between 0-3")
}

// defaultSysroot is the directory holding the compiler binary.
func defaultSysroot(argv0 string) string {
	return filepath.Dir(argv0)
}

// sessionOptions builds the immutable session options. input may be empty
// when no input file was given.
func (f *cliFlags) sessionOptions(fs *pflag.FlagSet, tc *target.Config, argv0, input string) (session.Options, error) {
	opts := session.DefaultOptions()
	level, err := f.optimization(fs.Changed("OptLevel"))
	if err != nil {
		return opts, err
	}

	opts.Shared = f.shared
	opts.OptLevel = level
	opts.DebugInfo = f.debugInfo
	opts.Verify = !f.noVerify
	opts.RunTypestate = !f.noTypestate
	opts.SaveTemps = f.saveTemps
	opts.Stats = f.stats
	opts.TimePasses = f.timePasses
	opts.TimeLLVMPasses = f.timeLLVM
	opts.PrintCommands = f.printCommands
	opts.Output = f.outputKind()

	opts.Sysroot = f.sysroot
	if opts.Sysroot == "" {
		opts.Sysroot = defaultSysroot(argv0)
	}
	opts.LibrarySearchPaths = append([]string{filepath.Join(opts.Sysroot, "lib")}, f.libraryPaths...)
	opts.Cfg = crateconfig.Build(tc, argv0, input, crateconfig.ParseSpecs(f.cfg))
	return opts, nil
}
