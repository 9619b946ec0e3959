// Command kilnc compiles one crate into an executable, a shared library or
// an intermediate artifact.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kiln/internal/diag"
	"kiln/internal/driver"
	"kiln/internal/link"
	"kiln/internal/target"
	"kiln/internal/toolchain"
)

// app carries everything a kilnc invocation touches outside the process, so
// tests can swap the toolchain and the host.
type app struct {
	argv0  string
	stdout io.Writer
	stderr io.Writer

	// runner is nil for real runs; an ExecRunner is built once
	// --print-commands is known.
	runner     toolchain.Runner
	phases     func(toolchain.Runner) driver.Phases
	tools      link.Tools
	hostTriple func(context.Context) string
	isTerminal func(io.Writer) bool
}

func newApp(argv0 string) *app {
	return &app{
		argv0:      argv0,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		phases:     driver.DefaultPhases,
		tools:      link.DefaultTools(),
		hostTriple: target.HostTriple,
		isTerminal: isTerminal,
	}
}

func main() {
	os.Exit(newApp(os.Args[0]).run(context.Background(), os.Args[1:]))
}

// usageError marks a malformed command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// run executes one invocation and returns the process exit status.
func (a *app) run(ctx context.Context, args []string) int {
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	return a.exitCode(cmd.ExecuteContext(ctx))
}

func (a *app) rootCommand() *cobra.Command {
	f := &cliFlags{}
	cmd := &cobra.Command{
		Use:           a.argv0 + " [options] <input>",
		Short:         "Compile a kiln crate",
		Long:          `kilnc compiles a crate file (.rc) or a single source file (.rs).`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.compile(cmd, f, args)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f.register(cmd.Flags())
	cmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	cmd.PersistentFlags().String("ui", "off", "show a progress UI (auto|on|off)")
	cmd.PersistentFlags().String("trace", "", "write a trace to this path (- for stderr)")
	cmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	return cmd
}

func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	var uerr *usageError
	if errors.As(err, &uerr) {
		a.printError(uerr.Error())
		fmt.Fprintf(a.stderr, "run `%s --help` for usage\n", a.argv0) //nolint:errcheck
		return 2
	}
	if !diag.IsReported(err) {
		a.printError(err.Error())
	}
	return 1
}

func (a *app) printError(msg string) {
	p := &diag.Printer{Out: a.stderr}
	p.Print(&diag.Diagnostic{Severity: diag.SevError, Message: msg})
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
