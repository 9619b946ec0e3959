package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// StreamTracer formats every event onto a writer as it arrives. Files are
// buffered until Close; other writers see each event immediately.
type StreamTracer struct {
	mu       sync.Mutex
	w        *bufio.Writer
	closer   io.Closer
	buffered bool
	level    Level
	format   Format
	seq      uint64
}

// NewStreamTracer writes events of level and coarser to w. w is closed by
// Close when it is a file other than stdout or stderr.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: bufio.NewWriter(w), level: level, format: format}
	if f, ok := w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		t.closer = f
		t.buffered = true
	}
	return t
}

// Emit numbers ev and writes it. Write errors are dropped: tracing never
// fails the compilation.
func (t *StreamTracer) Emit(ev Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	_, _ = t.w.Write(FormatEvent(&ev, t.format)) //nolint:errcheck
	if !t.buffered {
		_ = t.w.Flush() //nolint:errcheck
	}
}

func (t *StreamTracer) Level() Level { return t.level }

// Close flushes the buffer and closes the underlying file, if any.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.w.Flush()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
		t.closer = nil
	}
	return err
}
