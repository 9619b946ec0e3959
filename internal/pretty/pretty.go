// Package pretty prints a crate back as source.
package pretty

import (
	"fmt"
	"io"
	"strings"

	"kiln/internal/diag"
	"kiln/internal/syntax"
	"kiln/internal/typeck"
)

// Mode selects the annotations added to the printed crate.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeIdentified
	ModeTyped
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeIdentified:
		return "identified"
	case ModeTyped:
		return "typed"
	}
	return "invalid"
}

// ParseMode parses a --pretty value. An empty value means normal.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal":
		return ModeNormal, nil
	case "identified":
		return ModeIdentified, nil
	case "typed":
		return ModeTyped, nil
	}
	return 0, diag.Fatalf("argument to `pretty` must be one of `normal`, `typed`, or `identified`, not `%s`", s)
}

type printer struct {
	w    io.Writer
	mode Mode
	tcx  *typeck.Context
	err  error
}

// Print writes crate to w. tcx is required for ModeTyped and ignored
// otherwise.
func Print(w io.Writer, crate *syntax.Crate, mode Mode, tcx *typeck.Context) error {
	if mode == ModeTyped && tcx == nil {
		return diag.Fatalf("internal error: typed pretty-printing without a type context")
	}
	p := &printer{w: w, mode: mode, tcx: tcx}
	for _, it := range crate.Items {
		p.item(it)
	}
	return p.err
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) annotation(id syntax.NodeID) string {
	switch p.mode {
	case ModeIdentified:
		return fmt.Sprintf(" /* %d */", id)
	case ModeTyped:
		if t, ok := p.tcx.TypeOf(id); ok {
			return fmt.Sprintf(" /* %s */", t)
		}
		return " /* <error> */"
	}
	return ""
}

func (p *printer) item(it *syntax.Item) {
	for _, a := range it.Attrs {
		p.printf("#[cfg(%s)]\n", a.Pred)
	}
	switch it.Kind {
	case syntax.ItemUse:
		p.printf("use %s;%s\n", it.Name, p.annotation(it.ID))
	case syntax.ItemNative:
		p.printf("native %q;%s\n", it.Name, p.annotation(it.ID))
	case syntax.ItemFn:
		vis := ""
		if it.Pub {
			vis = "pub "
		}
		if len(it.Calls) == 0 {
			p.printf("%sfn %s;%s\n", vis, it.Name, p.annotation(it.ID))
			return
		}
		p.printf("%sfn %s {%s\n", vis, it.Name, p.annotation(it.ID))
		for _, c := range it.Calls {
			p.printf("%s%s();%s\n", strings.Repeat(" ", 4), c.Path(), p.annotation(c.ID))
		}
		p.printf("}\n")
	}
}
