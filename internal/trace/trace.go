// Package trace records spans for the kilnc driver: the invocation itself,
// every compilation phase and every external process it waits on.
//
//	kilnc --trace=- --trace-level=detail hello.rs
//
// Spans nest through their parent ID. The parent of the next span travels
// in the context next to the tracer:
//
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "linking", trace.ParentOf(ctx))
//	ctx = trace.WithParent(ctx, span.ID())
//	defer span.End("")
package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives span events.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	// Close writes out anything buffered and releases the output.
	Close() error
}

// Enabled reports whether t records spans of scope.
func Enabled(t Tracer, scope Scope) bool {
	return t != nil && t.Level().ShouldEmit(scope)
}

type nop struct{}

func (nop) Emit(Event)   {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop records nothing.
var Nop Tracer = nop{}

// Config selects where and how much to trace.
type Config struct {
	Level      Level
	Format     Format    // FormatAuto picks from OutputPath
	Output     io.Writer // used as is when set
	OutputPath string    // "-" or "" for stderr
}

// New builds the tracer cfg describes; LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
			format = FormatNDJSON
		}
	}
	if cfg.Output != nil {
		return NewStreamTracer(cfg.Output, cfg.Level, format), nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return NewStreamTracer(os.Stderr, cfg.Level, format), nil
	}
	// #nosec G304 -- the trace path comes from the command line
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return NewStreamTracer(f, cfg.Level, format), nil
}

type tracerKey struct{}
type parentKey struct{}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// ParentOf returns the span new spans started under ctx nest in; 0 means
// none.
func ParentOf(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(parentKey{}).(uint64)
	return id
}

// WithParent makes span id the parent of spans started under the returned
// context.
func WithParent(ctx context.Context, id uint64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, parentKey{}, id)
}
