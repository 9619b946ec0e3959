package trans

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kiln/internal/metadata"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/target"
	"kiln/internal/typeck"
)

func translate(t *testing.T, src string, mutate func(*session.Options), libDir string) *Module {
	t.Helper()
	tc, err := target.Resolve("i686-unknown-linux-gnu")
	if err != nil {
		t.Fatal(err)
	}
	opts := session.DefaultOptions()
	if libDir != "" {
		opts.LibrarySearchPaths = []string{libDir}
	}
	if mutate != nil {
		mutate(&opts)
	}
	sess := session.New(tc, opts, nil)
	crate, err := syntax.ParseString(sess, "app", "app.rs", src)
	if err != nil {
		t.Fatal(err)
	}
	amap := syntax.Indexer{}.Index(crate)
	defs, err := resolve.Resolver{}.Resolve(sess, amap, crate)
	if err != nil {
		t.Fatal(err)
	}
	tcx := typeck.Checker{}.NewContext(sess, defs, amap)
	if err := (typeck.Checker{}).Check(tcx, crate); err != nil {
		t.Fatal(err)
	}
	if sess.HasErrors() {
		t.Fatalf("unexpected errors: %+v", sess.Diagnostics().Items())
	}
	mod, err := Translator{}.Translate(sess, crate, tcx, "app.o", amap)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	return mod
}

func TestTranslateExecutable(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "libutil.so")
	if err := metadata.Write(lib, &metadata.Crate{Name: "util", Exports: []string{"shout"}}); err != nil {
		t.Fatal(err)
	}
	// the crate file itself only has to exist
	if err := writeEmpty(lib); err != nil {
		t.Fatal(err)
	}

	mod := translate(t, "use util;\nnative \"m\";\npub fn main { helper(); util::shout(); util::shout(); }\nfn helper;\n", nil, dir)

	wantLines := []string{
		`target triple = "i686-unknown-linux-gnu"`,
		`declare void @"util::shout"()`,
		`define void @"app::main"() {`,
		`  call void @"app::helper"()`,
		`  call void @"util::shout"()`,
		`define void @"app::helper"() {`,
		`define void @kiln_main() {`,
	}
	for _, line := range wantLines {
		if !strings.Contains(mod.IR, line+"\n") {
			t.Errorf("IR missing %q:\n%s", line, mod.IR)
		}
	}
	if n := strings.Count(mod.IR, "declare void"); n != 1 {
		t.Errorf("got %d declarations, want 1", n)
	}
	if len(mod.Exports) != 1 || mod.Exports[0] != "main" {
		t.Errorf("exports = %v", mod.Exports)
	}
	if len(mod.NativeLibs) != 1 || mod.NativeLibs[0] != "m" {
		t.Errorf("native libs = %v", mod.NativeLibs)
	}
	if mod.Hash == ([32]byte{}) {
		t.Error("module hash not computed")
	}
}

func TestTranslateSharedHasNoEntryShim(t *testing.T) {
	mod := translate(t, "pub fn api;\n", func(o *session.Options) { o.Shared = true }, "")
	if strings.Contains(mod.IR, EntryPoint) {
		t.Fatalf("shared crate got an entry shim:\n%s", mod.IR)
	}
}

func TestQuoteEscapesNonASCII(t *testing.T) {
	if got := quote("app::caf\u00e9"); got != `"app::caf\C3\A9"` {
		t.Fatalf("quote = %s", got)
	}
}

func TestTranslateGlue(t *testing.T) {
	tc, err := target.Resolve("i686-unknown-linux-gnu")
	if err != nil {
		t.Fatal(err)
	}
	mod, err := Translator{}.TranslateGlue(session.New(tc, session.DefaultOptions(), nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range GlueFunctions {
		if !strings.Contains(mod.IR, "define void @"+name+"(i8* %p)") {
			t.Errorf("glue missing %s:\n%s", name, mod.IR)
		}
	}
}

func writeEmpty(path string) error {
	return os.WriteFile(path, nil, 0o600)
}
