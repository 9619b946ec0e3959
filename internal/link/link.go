// Package link drives the native linker that turns the backend's object
// file into the final executable or shared library.
package link

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"kiln/internal/diag"
	"kiln/internal/outpath"
	"kiln/internal/session"
	"kiln/internal/target"
	"kiln/internal/toolchain"
	"kiln/internal/trace"
)

// Tools names the programs the link step runs.
type Tools struct {
	Linker   string
	Dsymutil string
	Remove   string
}

// DefaultTools returns gcc, dsymutil and rm.
func DefaultTools() Tools {
	return Tools{Linker: "gcc", Dsymutil: "dsymutil", Remove: "rm"}
}

// Args builds the linker argument vector for paths.
func Args(sess *session.Session, paths outpath.Paths) ([]string, error) {
	opts := sess.Options()
	tc := sess.Target()
	libDir := filepath.Join(opts.Sysroot, "lib")

	args := []string{
		"-L" + libDir,
		"-Lrt", "-lkilnrt",
		filepath.Join(libDir, "glue.o"),
		target.MachineFlag,
		"-o", paths.Final, paths.Intermediate,
	}

	for _, crate := range sess.UsedCrateFiles() {
		dir, base := filepath.Split(crate)
		if dir != "" {
			args = append(args, "-L"+filepath.Clean(dir))
		}
		args = append(args, "-l"+unlib(tc.OS, base))
	}
	for _, lib := range sess.UsedLibraries() {
		args = append(args, "-l"+lib)
	}

	if opts.Shared {
		switch tc.OS {
		case target.OSLinux, target.OSWin32:
			args = append(args, "-shared")
		case target.OSMacOS:
			args = append(args, "-dynamiclib")
		default:
			return nil, diag.Fatalf("internal error: no shared library flag for target OS %s", tc.OS)
		}
	} else {
		args = append(args, "-Lkilnllvm", "-lm", "rt/main.o")
	}
	return args, nil
}

// unlib turns a crate file name into the name -l expects.
func unlib(os target.OS, file string) string {
	if os == target.OSMacOS || os == target.OSLinux {
		file = strings.TrimPrefix(file, "lib")
	}
	if i := strings.LastIndexByte(file, '.'); i >= 0 {
		file = file[:i]
	}
	return file
}

// Link runs the linker over paths.Intermediate. A non-zero linker exit is
// reported on the session and aborts the compilation. dsymutil (macOS) and
// the removal of the intermediate object are best-effort.
func Link(ctx context.Context, sess *session.Session, runner toolchain.Runner, tools Tools, paths outpath.Paths) error {
	if err := sess.AbortIfErrors(); err != nil {
		return err
	}
	args, err := Args(sess, paths)
	if err != nil {
		return err
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "linking", trace.ParentOf(ctx))
	ctx = trace.WithParent(ctx, span.ID())
	defer span.End("")

	code, err := runner.Run(ctx, tools.Linker, args...)
	if err != nil {
		return sess.Fatal(diag.DrvLinkFailed, "could not run %s: %v", tools.Linker, err)
	}
	if code != 0 {
		sess.Report(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.DrvLinkFailed,
			Message:  fmt.Sprintf("linking with %s failed with code %d", tools.Linker, code),
		})
		sess.Note(tools.Linker + " arguments: " + strings.Join(args, " "))
		return sess.AbortIfErrors()
	}

	if sess.Target().OS == target.OSMacOS {
		_, _ = runner.Run(ctx, tools.Dsymutil, paths.Final) //nolint:errcheck
	}
	if !sess.Options().SaveTemps {
		_, _ = runner.Run(ctx, tools.Remove, paths.Intermediate) //nolint:errcheck
	}
	return nil
}
