package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kiln/internal/buildpipeline"
	"kiln/internal/diag"
	"kiln/internal/driver"
	"kiln/internal/metadata"
	"kiln/internal/observ"
	"kiln/internal/pretty"
	"kiln/internal/session"
	"kiln/internal/target"
	"kiln/internal/toolchain"
	"kiln/internal/trace"
	"kiln/internal/version"
)

func (a *app) compile(cmd *cobra.Command, f *cliFlags, args []string) error {
	if f.version {
		_, err := fmt.Fprintf(a.stdout, "%s %s\n", a.argv0, version.Version)
		return err
	}
	if err := a.setupColor(cmd); err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "kilnc", 0)
	defer span.End("")
	ctx = trace.WithParent(ctx, span.ID())

	triple := f.target
	if triple == "" {
		triple = a.hostTriple(ctx)
	}
	tc, err := target.Resolve(triple)
	if err != nil {
		return err
	}

	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	opts, err := f.sessionOptions(cmd.Flags(), tc, a.argv0, input)
	if err != nil {
		return err
	}
	sess := session.New(tc, opts, a.stderr)

	runner := a.runner
	if runner == nil {
		runner = toolchain.NewExecRunner(a.stdout, a.stderr, opts.PrintCommands)
	}
	ph := a.phases(runner)
	h := &driver.Harness{
		TimePasses: opts.TimePasses,
		Log:        a.stderr,
		Tracer:     tracer,
		Parent:     span.ID(),
	}
	if opts.Stats {
		h.Timer = observ.NewTimer()
		defer func() {
			_, _ = fmt.Fprint(a.stdout, h.Timer.Summary()) //nolint:errcheck
		}()
	}

	if f.glue {
		if len(args) > 0 {
			return sess.Fatal(diag.DrvBadArguments, "No input files allowed with --glue.")
		}
		_, err := buildpipeline.Glue(ctx, &buildpipeline.GlueRequest{
			Output:  f.output,
			Session: sess,
			Phases:  ph,
			Harness: h,
		})
		return err
	}
	switch len(args) {
	case 0:
		return sess.Fatal(diag.DrvBadArguments, "No input filename given.")
	case 1:
	default:
		return sess.Fatal(diag.DrvBadArguments, "Multiple input filenames provided.")
	}

	if cmd.Flags().Changed("pretty") {
		mode, err := pretty.ParseMode(f.pretty)
		if err != nil {
			return err
		}
		if err := driver.Pretty(h, sess, ph, input, mode, a.stdout); err != nil {
			return err
		}
		return sess.AbortIfErrors()
	}
	if f.ls {
		return metadata.List(a.stdout, input)
	}

	req := &buildpipeline.BuildRequest{
		Input:   input,
		Output:  f.output,
		Session: sess,
		Phases:  ph,
		Runner:  runner,
		Tools:   a.tools,
		Harness: h,
	}
	mode, err := readUIMode(cmd)
	if err != nil {
		return err
	}
	if a.shouldUseTUI(mode) {
		_, err = runBuildWithUI(ctx, a.stdout, filepath.Base(input), uiPhases(opts), req)
		return err
	}
	_, err = buildpipeline.Build(ctx, req)
	return err
}

// setupColor applies --color to every colored writer in the process.
func (a *app) setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !a.isTerminal(a.stderr)
	default:
		return &usageError{err: fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)}
	}
	return nil
}

// uiPhases lists the phases a build with opts goes through.
func uiPhases(opts session.Options) []string {
	if opts.Output == session.OutputNone {
		return []string{driver.PhaseParsing}
	}
	out := make([]string, 0, len(driver.PhaseNames)+1)
	for _, name := range driver.PhaseNames {
		if name == driver.PhaseTypestate && !opts.RunTypestate {
			continue
		}
		out = append(out, name)
	}
	if opts.Output == session.OutputExecutable {
		out = append(out, buildpipeline.PhaseLink)
	}
	return out
}
