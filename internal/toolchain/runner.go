// Package toolchain runs the external programs the driver depends on
// (clang, the native linker, dsymutil, rm).
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"kiln/internal/trace"
)

// Runner starts an external program, waits for it and reports its exit
// status. err is non-nil only when the program could not be started at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	Stdout        io.Writer
	Stderr        io.Writer
	PrintCommands bool
}

// NewExecRunner returns a runner streaming program output to stdout and
// stderr. Nil writers mean the process's own streams.
func NewExecRunner(stdout, stderr io.Writer, printCommands bool) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{Stdout: stdout, Stderr: stderr, PrintCommands: printCommands}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if r.PrintCommands {
		if _, err := fmt.Fprintln(stdout, CommandLine(name, args)); err != nil {
			return -1, fmt.Errorf("failed to print command: %w", err)
		}
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeProcess, name, trace.ParentOf(ctx))
	// #nosec G204 -- program names come from the driver, arguments from the build
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		span.End("exit 0")
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		span.End(fmt.Sprintf("exit %d", code))
		return code, nil
	}
	span.End(err.Error())
	return -1, err
}

// CommandLine renders a command the way it would be typed in a shell,
// without quoting.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
