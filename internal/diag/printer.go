package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"kiln/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan, color.Bold)
)

// Printer renders diagnostics as "path:line:col: severity: message".
type Printer struct {
	Out   io.Writer
	Files *source.FileSet
}

// Print writes d and its notes. Write errors are ignored: diagnostics are
// best-effort output.
func (p *Printer) Print(d *Diagnostic) {
	if p == nil || p.Out == nil || d == nil {
		return
	}
	p.line(d.Severity, d.Primary, d.HasSpan, d.Message)
	for _, n := range d.Notes {
		p.line(SevNote, n.Span, !n.Span.Empty(), n.Msg)
	}
}

func (p *Printer) line(sev Severity, sp source.Span, hasSpan bool, msg string) {
	prefix := ""
	if hasSpan && p.Files != nil {
		if pos := p.Files.Position(sp); pos != "" {
			prefix = pos + ": "
		}
	}
	_, _ = fmt.Fprintf(p.Out, "%s%s %s\n", prefix, severityLabel(sev), msg) //nolint:errcheck
}

func severityLabel(sev Severity) string {
	label := sev.String() + ":"
	switch sev {
	case SevError:
		return errorColor.Sprint(label)
	case SevWarning:
		return warningColor.Sprint(label)
	default:
		return noteColor.Sprint(label)
	}
}
