// Package driver sequences the compilation phases over one input file.
package driver

import (
	"context"
	"io"
	"path/filepath"

	"kiln/internal/diag"
	"kiln/internal/pretty"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/trans"
	"kiln/internal/typeck"
)

// Result holds what a compilation produced. Module is nil when the
// pipeline stopped after parsing.
type Result struct {
	Crate  *syntax.Crate
	Module *trans.Module
}

// Analysis is a crate after every check has run.
type Analysis struct {
	Crate *syntax.Crate
	AST   syntax.ASTMap
	Defs  resolve.DefMap
	Types *typeck.Context
}

// Parse reads input, dispatching on its extension.
func Parse(h *Harness, sess *session.Session, p Parser, input string) (*syntax.Crate, error) {
	return RunPhase(h, PhaseParsing, func() (*syntax.Crate, error) {
		switch filepath.Ext(input) {
		case ".rc":
			return p.ParseCrateFile(sess, input)
		case ".rs":
			return p.ParseSourceFile(sess, input)
		}
		return nil, sess.Fatal(diag.DrvUnknownInput, "unknown input file type: %s", input)
	})
}

// Analyze runs configuration stripping through alias checking.
func Analyze(h *Harness, sess *session.Session, ph Phases, crate *syntax.Crate) (*Analysis, error) {
	opts := sess.Options()
	crate, err := RunPhase(h, PhaseConfiguration, func() (*syntax.Crate, error) {
		return ph.Stripper.Strip(crate, opts.Cfg), nil
	})
	if err != nil {
		return nil, err
	}
	amap, err := RunPhase(h, PhaseIndexing, func() (syntax.ASTMap, error) {
		return ph.Indexer.Index(crate), nil
	})
	if err != nil {
		return nil, err
	}
	defs, err := RunPhase(h, PhaseResolution, func() (resolve.DefMap, error) {
		return ph.Resolver.Resolve(sess, amap, crate)
	})
	if err != nil {
		return nil, err
	}
	tcx, err := RunPhase(h, PhaseTypeContext, func() (*typeck.Context, error) {
		return ph.TypeChecker.NewContext(sess, defs, amap), nil
	})
	if err != nil {
		return nil, err
	}
	if err := run(h, PhaseTypecheck, func() error { return ph.TypeChecker.Check(tcx, crate) }); err != nil {
		return nil, err
	}
	if opts.RunTypestate {
		if err := run(h, PhaseTypestate, func() error { return ph.Typestate.Check(tcx, crate) }); err != nil {
			return nil, err
		}
	}
	if err := run(h, PhaseAlias, func() error { return ph.Alias.Check(tcx, crate) }); err != nil {
		return nil, err
	}
	return &Analysis{Crate: crate, AST: amap, Defs: defs, Types: tcx}, nil
}

// Compile runs the whole pipeline over input and writes the backend output
// to output. Non-fatal diagnostics are only counted on sess; callers gate on
// them afterwards.
func Compile(ctx context.Context, h *Harness, sess *session.Session, ph Phases, input, output string) (*Result, error) {
	crate, err := Parse(h, sess, ph.Parser, input)
	if err != nil {
		return nil, err
	}
	kind := sess.Options().Output
	if kind == session.OutputNone {
		return &Result{Crate: crate}, nil
	}

	an, err := Analyze(h, sess, ph, crate)
	if err != nil {
		return nil, err
	}
	mod, err := RunPhase(h, PhaseTranslation, func() (*trans.Module, error) {
		return ph.Translator.Translate(sess, an.Crate, an.Types, output, an.AST)
	})
	if err != nil {
		return nil, err
	}
	err = run(h, PhaseBackend, func() error {
		return ph.Backend.RunPasses(ctx, sess, mod, kind, output)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Crate: an.Crate, Module: mod}, nil
}

// Glue translates the glue module and writes it to output as bitcode.
func Glue(ctx context.Context, h *Harness, sess *session.Session, ph Phases, output string) error {
	mod, err := RunPhase(h, PhaseTranslation, func() (*trans.Module, error) {
		return ph.Translator.TranslateGlue(sess)
	})
	if err != nil {
		return err
	}
	return run(h, PhaseBackend, func() error {
		return ph.Backend.RunPasses(ctx, sess, mod, session.OutputBitcode, output)
	})
}

// Pretty parses input and prints it in mode. Typed printing runs the
// analysis phases first.
func Pretty(h *Harness, sess *session.Session, ph Phases, input string, mode pretty.Mode, w io.Writer) error {
	crate, err := Parse(h, sess, ph.Parser, input)
	if err != nil {
		return err
	}
	if mode != pretty.ModeTyped {
		return pretty.Print(w, crate, mode, nil)
	}
	an, err := Analyze(h, sess, ph, crate)
	if err != nil {
		return err
	}
	return pretty.Print(w, an.Crate, mode, an.Types)
}
