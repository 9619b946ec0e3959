// Package backend turns a translated module into assembly, an object file
// or bitcode by running clang over its IR.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"kiln/internal/diag"
	"kiln/internal/session"
	"kiln/internal/target"
	"kiln/internal/toolchain"
	"kiln/internal/trans"
)

// Clang is the reference backend.
type Clang struct {
	Runner toolchain.Runner
	Path   string // clang binary, "clang" when empty
}

// Args returns the clang arguments that compile llPath into output.
func Args(opts session.Options, kind session.OutputKind, llPath, output string) ([]string, error) {
	args := []string{"-x", "ir", llPath}
	switch kind {
	case session.OutputAssembly:
		args = append(args, "-S")
	case session.OutputObject, session.OutputExecutable:
		args = append(args, "-c")
	case session.OutputBitcode:
		args = append(args, "-c", "-emit-llvm")
	default:
		return nil, diag.Fatalf("internal error: backend cannot produce %s output", kind)
	}
	args = append(args, "-O"+strconv.Itoa(opts.OptLevel), target.MachineFlag)
	if opts.DebugInfo {
		args = append(args, "-g")
	}
	if !opts.Verify {
		args = append(args, "-Xclang", "-disable-llvm-verifier")
	}
	if opts.TimeLLVMPasses {
		args = append(args, "-ftime-report")
	}
	return append(args, "-o", output), nil
}

// RunPasses writes mod's IR to a temporary directory and compiles it into
// output. With save-temps the IR is kept next to output as output+".ll".
func (c Clang) RunPasses(ctx context.Context, sess *session.Session, mod *trans.Module, kind session.OutputKind, output string) error {
	opts := sess.Options()

	var llPath string
	if opts.SaveTemps {
		llPath = output + ".ll"
	} else {
		tmpDir, err := os.MkdirTemp("", "kiln-")
		if err != nil {
			return fmt.Errorf("failed to create tmp dir: %w", err)
		}
		defer func() {
			_ = os.RemoveAll(tmpDir)
		}()
		llPath = filepath.Join(tmpDir, mod.Name+".ll")
	}
	if err := os.WriteFile(llPath, []byte(mod.IR), 0o600); err != nil {
		return fmt.Errorf("failed to write LLVM IR: %w", err)
	}

	args, err := Args(opts, kind, llPath, output)
	if err != nil {
		return err
	}
	clang := c.Path
	if clang == "" {
		clang = "clang"
	}
	code, err := c.Runner.Run(ctx, clang, args...)
	if err != nil {
		return sess.Fatal(diag.DrvInternal, "could not run %s: %v", clang, err)
	}
	if code != 0 {
		return sess.Fatal(diag.DrvInternal, "%s failed with code %d", clang, code)
	}
	return nil
}
