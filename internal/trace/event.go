package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind tells a span opening from a span closing.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	}
	return "unknown"
}

// Scope is the granularity of a span. Coarser scopes have lower values.
type Scope uint8

const (
	ScopeDriver  Scope = iota + 1 // the whole invocation
	ScopePhase                    // one compilation phase or the link
	ScopeProcess                  // one external program
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeProcess:
		return "process"
	}
	return "unknown"
}

// Event is one span boundary. Seq is assigned by the tracer that writes it.
type Event struct {
	Seq     uint64
	Time    time.Time
	Kind    Kind
	Scope   Scope
	SpanID  uint64
	Parent  uint64
	Name    string
	Detail  string
	Elapsed time.Duration // end events only
}

// Level is the --trace-level setting.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// finest scope each level records; LevelError records no spans.
var levelScopes = [...]Scope{
	LevelPhase:  ScopePhase,
	LevelDetail: ScopeProcess,
	LevelDebug:  ScopeProcess,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel parses a --trace-level value. Case and surrounding blanks are
// ignored; the empty string is off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether spans of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScopes) {
		return false
	}
	return scope != 0 && scope <= levelScopes[l]
}
