package trace

import (
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open begin/end pair. A span on a tracer that filters its
// scope is inert: End does nothing and ID is 0.
type Span struct {
	t      Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
}

// Begin opens a span named name under parent and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Enabled(t, scope) {
		return &Span{}
	}
	s := &Span{
		t:      t,
		id:     spanIDs.Add(1),
		parent: parent,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	t.Emit(s.event(KindBegin, s.start, ""))
	return s
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	ev := s.event(KindEnd, now, detail)
	ev.Elapsed = now.Sub(s.start)
	s.t.Emit(ev)
	s.t = nil
	return ev.Elapsed
}

// ID is the span's identifier, for nesting children under it.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time, detail string) Event {
	return Event{
		Time:   at,
		Kind:   kind,
		Scope:  s.scope,
		SpanID: s.id,
		Parent: s.parent,
		Name:   s.name,
		Detail: detail,
	}
}
