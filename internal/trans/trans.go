// Package trans lowers a checked crate to textual LLVM IR.
package trans

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"kiln/internal/diag"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/typeck"
)

// EntryPoint is the symbol rt/main.o calls into.
const EntryPoint = "kiln_main"

// Module is a translated crate.
type Module struct {
	Name       string
	SourceFile string
	Output     string // the path the backend will write
	IR         string
	Exports    []string // public function names
	NativeLibs []string
	Hash       [32]byte // digest of the crate's sources
}

// Translator is the reference code generator.
type Translator struct{}

// Symbol returns the mangled name of fn in crate.
func Symbol(crate, fn string) string {
	return crate + "::" + fn
}

// Translate emits one `define` per function, one `declare` per external
// function it calls and, for executables, the entry shim.
func (Translator) Translate(sess *session.Session, crate *syntax.Crate, tcx *typeck.Context, output string, amap syntax.ASTMap) (*Module, error) {
	mod := &Module{
		Name:       crate.Name,
		SourceFile: filepath.Base(crate.Path),
		Output:     output,
		Hash:       crateHash(sess, crate),
	}

	var body strings.Builder
	declared := map[string]bool{}
	var externs []string
	for _, fn := range crate.Functions() {
		if _, ok := tcx.Defs()[fn.ID]; !ok {
			continue // duplicate definition
		}
		if fn.Pub {
			mod.Exports = append(mod.Exports, fn.Name)
		}
		fmt.Fprintf(&body, "define void @%s() {\nentry:\n", quote(Symbol(crate.Name, fn.Name)))
		for _, call := range fn.Calls {
			if _, ok := amap[call.ID]; !ok {
				return nil, sess.SpanFatal(diag.DrvInternal, call.Span, "internal error: call `%s` not indexed", call.Path())
			}
			if !tcx.Callable(call.ID) {
				continue
			}
			sym, err := callee(sess, crate, tcx.Defs()[call.ID])
			if err != nil {
				return nil, err
			}
			if tcx.Defs()[call.ID].Kind == resolve.DefExternFn && !declared[sym] {
				declared[sym] = true
				externs = append(externs, sym)
			}
			fmt.Fprintf(&body, "  call void @%s()\n", quote(sym))
		}
		body.WriteString("  ret void\n}\n\n")
	}

	for _, it := range crate.Items {
		if it.Kind == syntax.ItemNative && it.Name != "" {
			mod.NativeLibs = append(mod.NativeLibs, it.Name)
		}
	}

	opts := sess.Options()
	if !opts.Shared && opts.Output == session.OutputExecutable {
		if main := typeck.FindMain(crate); main != nil {
			fmt.Fprintf(&body, "define void @%s() {\nentry:\n  call void @%s()\n  ret void\n}\n", EntryPoint, quote(Symbol(crate.Name, main.Name)))
		}
	}

	var ir strings.Builder
	fmt.Fprintf(&ir, "; ModuleID = '%s'\nsource_filename = %s\ntarget triple = %s\n\n", mod.Name, quote(mod.SourceFile), quote(sess.Target().Triple))
	sort.Strings(externs)
	for _, sym := range externs {
		fmt.Fprintf(&ir, "declare void @%s()\n", quote(sym))
	}
	if len(externs) > 0 {
		ir.WriteString("\n")
	}
	ir.WriteString(body.String())
	mod.IR = ir.String()
	return mod, nil
}

// quote renders s as an LLVM quoted name, escaping anything but printable
// ASCII as \XX.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7e || c == '"' || c == '\\' {
			fmt.Fprintf(&sb, "\\%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}

func callee(sess *session.Session, crate *syntax.Crate, def resolve.Def) (string, error) {
	switch def.Kind {
	case resolve.DefLocalFn:
		return Symbol(crate.Name, def.Name), nil
	case resolve.DefExternFn:
		ext, ok := sess.ExternalCrate(def.Crate)
		if !ok {
			return "", sess.Fatal(diag.DrvInternal, "internal error: crate %d is not loaded", def.Crate)
		}
		return Symbol(ext.Name, def.Name), nil
	default:
		return "", sess.Fatal(diag.DrvInternal, "internal error: cannot call a %s", def.Kind)
	}
}

func crateHash(sess *session.Session, crate *syntax.Crate) [32]byte {
	h := sha256.New()
	for _, id := range crate.Files {
		if f := sess.Files().Get(id); f != nil {
			h.Write(f.Hash[:])
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// GlueFunctions are the runtime helpers every program links against.
var GlueFunctions = []string{"kiln_glue_drop", "kiln_glue_take", "kiln_glue_free"}

// TranslateGlue emits the module of shared glue helpers.
func (Translator) TranslateGlue(sess *session.Session) (*Module, error) {
	var ir strings.Builder
	fmt.Fprintf(&ir, "; ModuleID = 'glue'\nsource_filename = \"glue\"\ntarget triple = %s\n\n", quote(sess.Target().Triple))
	for _, name := range GlueFunctions {
		fmt.Fprintf(&ir, "define void @%s(i8* %%p) {\nentry:\n  ret void\n}\n\n", name)
	}
	return &Module{Name: "glue", SourceFile: "glue", IR: ir.String(), Exports: GlueFunctions}, nil
}
