// Package session holds the state shared by every phase of one compilation:
// the target, the options, the diagnostics emitted so far, the external crate
// cache and the crate/library accumulators read by the linker.
package session

import (
	"fmt"
	"io"
	"slices"

	"kiln/internal/diag"
	"kiln/internal/metadata"
	"kiln/internal/source"
	"kiln/internal/target"
)

// ExternalCrate is a crate loaded by `use`.
type ExternalCrate struct {
	Name string
	Path string
	Meta *metadata.Crate // nil when the crate ships no metadata
}

// Session is passed explicitly into every phase. It is not safe for
// concurrent use; the pipeline is sequential.
type Session struct {
	target *target.Config
	opts   Options

	files   *source.FileSet
	bag     *diag.Bag
	printer *diag.Printer

	errors   int
	warnings int

	crates    map[int]*ExternalCrate
	nextCrate int

	usedCrateFiles []string
	usedLibraries  []string
}

// New creates a session. Diagnostics are printed to diagOut as they are
// reported; a nil diagOut keeps them only in the bag.
func New(tc *target.Config, opts Options, diagOut io.Writer) *Session {
	files := source.NewFileSet()
	return &Session{
		target:    tc,
		opts:      opts,
		files:     files,
		bag:       diag.NewBag(0),
		printer:   &diag.Printer{Out: diagOut, Files: files},
		crates:    make(map[int]*ExternalCrate),
		nextCrate: 1,
	}
}

func (s *Session) Target() *target.Config { return s.target }
func (s *Session) Options() Options       { return s.opts }
func (s *Session) Files() *source.FileSet { return s.files }
func (s *Session) Diagnostics() *diag.Bag { return s.bag }

// ErrorCount is the number of errors reported so far.
func (s *Session) ErrorCount() int { return s.errors }

// WarningCount is the number of warnings reported so far.
func (s *Session) WarningCount() int { return s.warnings }

// HasErrors reports whether any error was reported.
func (s *Session) HasErrors() bool { return s.errors > 0 }

// Report records and prints d.
func (s *Session) Report(d diag.Diagnostic) {
	switch d.Severity {
	case diag.SevError:
		s.errors++
	case diag.SevWarning:
		s.warnings++
	}
	s.bag.Add(d)
	s.printer.Print(&d)
}

// Err reports a non-fatal error without a location.
func (s *Session) Err(code diag.Code, msg string) {
	s.Report(diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg})
}

// SpanErr reports a non-fatal error at sp.
func (s *Session) SpanErr(code diag.Code, sp source.Span, msg string) {
	s.Report(diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Primary: sp, HasSpan: true})
}

// SpanWarn reports a warning at sp.
func (s *Session) SpanWarn(code diag.Code, sp source.Span, msg string) {
	s.Report(diag.Diagnostic{Severity: diag.SevWarning, Code: code, Message: msg, Primary: sp, HasSpan: true})
}

// Warn reports a warning without a location.
func (s *Session) Warn(msg string) {
	s.Report(diag.Diagnostic{Severity: diag.SevWarning, Message: msg})
}

// Note reports an informational message.
func (s *Session) Note(msg string) {
	s.Report(diag.Diagnostic{Severity: diag.SevNote, Message: msg})
}

// Fatal reports msg as an error and returns the FatalError the caller must
// return up the stack.
func (s *Session) Fatal(code diag.Code, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	s.Err(code, msg)
	return &diag.FatalError{Msg: msg, Reported: true}
}

// SpanFatal is Fatal with a location.
func (s *Session) SpanFatal(code diag.Code, sp source.Span, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	s.SpanErr(code, sp, msg)
	return &diag.FatalError{Msg: msg, Reported: true}
}

// AbortIfErrors returns a reported FatalError when errors were recorded and
// nil otherwise.
func (s *Session) AbortIfErrors() error {
	if s.errors == 0 {
		return nil
	}
	noun := "errors"
	if s.errors == 1 {
		noun = "error"
	}
	msg := fmt.Sprintf("aborting due to %d previous %s", s.errors, noun)
	s.Report(diag.Diagnostic{Severity: diag.SevError, Code: diag.DrvAborted, Message: msg})
	return &diag.FatalError{Msg: msg, Err: diag.ErrAborted, Reported: true}
}

// AddUsedCrateFile records a crate file for the linker. Repeats are ignored.
func (s *Session) AddUsedCrateFile(path string) {
	if slices.Contains(s.usedCrateFiles, path) {
		return
	}
	s.usedCrateFiles = append(s.usedCrateFiles, path)
}

// UsedCrateFiles returns the crate files in insertion order.
func (s *Session) UsedCrateFiles() []string {
	return slices.Clone(s.usedCrateFiles)
}

// AddUsedLibrary records a native library for the linker. Empty names and
// repeats are ignored.
func (s *Session) AddUsedLibrary(name string) {
	if name == "" || slices.Contains(s.usedLibraries, name) {
		return
	}
	s.usedLibraries = append(s.usedLibraries, name)
}

// UsedLibraries returns the native libraries in insertion order.
func (s *Session) UsedLibraries() []string {
	return slices.Clone(s.usedLibraries)
}

// NextCrateNum reserves a crate number.
func (s *Session) NextCrateNum() int {
	n := s.nextCrate
	s.nextCrate++
	return n
}

// SetExternalCrate caches c under num.
func (s *Session) SetExternalCrate(num int, c *ExternalCrate) {
	s.crates[num] = c
}

// ExternalCrate returns the cached crate num.
func (s *Session) ExternalCrate(num int) (*ExternalCrate, bool) {
	c, ok := s.crates[num]
	return c, ok
}

// FindExternalCrate looks a cached crate up by name.
func (s *Session) FindExternalCrate(name string) (int, *ExternalCrate, bool) {
	for num, c := range s.crates {
		if c.Name == name {
			return num, c, true
		}
	}
	return 0, nil, false
}
