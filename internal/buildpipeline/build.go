// Package buildpipeline orchestrates one kilnc invocation: output naming,
// the phase pipeline, the native link and the final error gate.
package buildpipeline

import (
	"context"
	"fmt"

	"kiln/internal/driver"
	"kiln/internal/link"
	"kiln/internal/metadata"
	"kiln/internal/outpath"
	"kiln/internal/session"
	"kiln/internal/toolchain"
)

// BuildRequest configures one compilation.
type BuildRequest struct {
	Input   string
	Output  string // -o, empty when not given
	Session *session.Session
	Phases  driver.Phases
	Runner  toolchain.Runner
	Tools   link.Tools
	Harness *driver.Harness
	// Progress receives phase events; the harness observer is set from it
	// when the harness has none.
	Progress ProgressSink
}

// BuildResult captures what the build produced.
type BuildResult struct {
	Paths  outpath.Paths
	Result *driver.Result
}

// Build compiles req.Input and, for executables, links it.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil || req.Session == nil {
		return result, fmt.Errorf("missing build request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sess := req.Session
	opts := sess.Options()
	h := withProgress(req.Harness, req.Progress)

	result.Paths = outpath.Resolve(req.Input, req.Output, opts.Output)
	res, err := driver.Compile(ctx, h, sess, req.Phases, req.Input, result.Paths.Intermediate)
	result.Result = res
	if err != nil {
		return result, err
	}

	if opts.Output == session.OutputExecutable {
		emit(req.Progress, PhaseLink, StatusWorking, nil)
		if err := link.Link(ctx, sess, req.Runner, req.Tools, result.Paths); err != nil {
			emit(req.Progress, PhaseLink, StatusError, err)
			return result, err
		}
		if opts.Shared && res.Module != nil {
			if err := writeCrateMetadata(result.Paths.Final, sess, res); err != nil {
				emit(req.Progress, PhaseLink, StatusError, err)
				return result, err
			}
		}
		emit(req.Progress, PhaseLink, StatusDone, nil)
	}

	return result, sess.AbortIfErrors()
}

// GlueRequest configures --glue.
type GlueRequest struct {
	Output   string // glue.bc when empty
	Session  *session.Session
	Phases   driver.Phases
	Harness  *driver.Harness
	Progress ProgressSink
}

// DefaultGlueOutput is where --glue writes without -o.
const DefaultGlueOutput = "glue.bc"

// Glue writes the glue bitcode object and returns its path.
func Glue(ctx context.Context, req *GlueRequest) (string, error) {
	if req == nil || req.Session == nil {
		return "", fmt.Errorf("missing glue request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	out := req.Output
	if out == "" {
		out = DefaultGlueOutput
	}
	h := withProgress(req.Harness, req.Progress)
	if err := driver.Glue(ctx, h, req.Session, req.Phases, out); err != nil {
		return out, err
	}
	return out, req.Session.AbortIfErrors()
}

// withProgress returns h, or a copy of it observed by sink.
func withProgress(h *driver.Harness, sink ProgressSink) *driver.Harness {
	if sink == nil {
		return h
	}
	var out driver.Harness
	if h != nil {
		out = *h
	}
	if out.Observer == nil {
		out.Observer = PhaseObserver(sink)
	}
	return &out
}

func writeCrateMetadata(lib string, sess *session.Session, res *driver.Result) error {
	mod := res.Module
	if err := metadata.Write(lib, &metadata.Crate{
		Name:       mod.Name,
		Hash:       mod.Hash,
		Exports:    mod.Exports,
		NativeLibs: sess.UsedLibraries(),
	}); err != nil {
		return fmt.Errorf("failed to write crate metadata: %w", err)
	}
	return nil
}
