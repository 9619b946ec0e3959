package driver

import (
	"fmt"
	"io"
	"time"

	"kiln/internal/observ"
	"kiln/internal/trace"
)

// PhaseStatus tells a phase starting from a phase finishing.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent is handed to a PhaseObserver at both ends of every phase.
// Elapsed and Err are only meaningful for PhaseEnd.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver follows the phases run through a Harness.
type PhaseObserver func(PhaseEvent)

// Harness instruments phases. The zero value (or nil) runs them bare.
type Harness struct {
	// TimePasses logs "time: <phase> took <secs> s" to Log.
	TimePasses bool
	Log        io.Writer
	Timer      *observ.Timer
	Tracer     trace.Tracer
	Parent     uint64 // span the phase spans nest under
	Observer   PhaseObserver
}

func (h *Harness) instrumented() bool {
	if h == nil {
		return false
	}
	return h.TimePasses || h.Timer != nil || h.Observer != nil || trace.Enabled(h.Tracer, trace.ScopePhase)
}

// RunPhase runs fn as the phase called name. Without instrumentation fn is
// called directly.
func RunPhase[T any](h *Harness, name string, fn func() (T, error)) (T, error) {
	if !h.instrumented() {
		return fn()
	}

	if h.Observer != nil {
		h.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	span := trace.Begin(h.Tracer, trace.ScopePhase, name, h.Parent)
	idx := -1
	if h.Timer != nil {
		idx = h.Timer.Begin(name)
	}
	start := time.Now()

	v, err := fn()

	elapsed := time.Since(start)
	note := ""
	if err != nil {
		note = "failed"
	}
	if h.Timer != nil {
		h.Timer.End(idx, note)
	}
	span.End(note)
	if h.Observer != nil {
		h.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed, Err: err})
	}
	if h.TimePasses && h.Log != nil {
		_, _ = fmt.Fprintf(h.Log, "time: %s took %.3f s\n", name, elapsed.Seconds()) //nolint:errcheck
	}
	return v, err
}

// run adapts a phase without a result to RunPhase.
func run(h *Harness, name string, fn func() error) error {
	_, err := RunPhase(h, name, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
