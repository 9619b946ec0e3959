package syntax

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kiln/internal/crateconfig"
	"kiln/internal/diag"
	"kiln/internal/session"
	"kiln/internal/target"
)

func testSession(t *testing.T, out *bytes.Buffer) *session.Session {
	t.Helper()
	tc, err := target.Resolve("x86_64-unknown-linux-gnu")
	if err != nil {
		t.Fatal(err)
	}
	if out == nil {
		return session.New(tc, session.DefaultOptions(), nil)
	}
	return session.New(tc, session.DefaultOptions(), out)
}

const sample = `// greeting program
use util;
native "m";

#[cfg(target_os = "linux")]
#[cfg(debug)]
fn trace;

pub fn main {
	hello();
	util::shout();
}

fn hello;
`

func TestParseItems(t *testing.T) {
	sess := testSession(t, nil)
	crate, err := ParseString(sess, "hello", "hello.rs", sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(crate.Items) != 5 {
		t.Fatalf("got %d items, want 5", len(crate.Items))
	}

	kinds := []ItemKind{ItemUse, ItemNative, ItemFn, ItemFn, ItemFn}
	names := []string{"util", "m", "trace", "main", "hello"}
	for i, it := range crate.Items {
		if it.Kind != kinds[i] || it.Name != names[i] {
			t.Errorf("item %d = %s %s, want %s %s", i, it.Kind, it.Name, kinds[i], names[i])
		}
	}

	trace := crate.Items[2]
	if len(trace.Attrs) != 2 ||
		trace.Attrs[0].Pred != crateconfig.NameValue("target_os", "linux") ||
		trace.Attrs[1].Pred != crateconfig.Word("debug") {
		t.Fatalf("trace attrs = %+v", trace.Attrs)
	}

	main := crate.Items[3]
	if !main.Pub || len(main.Calls) != 2 {
		t.Fatalf("main = %+v", main)
	}
	if main.Calls[0].Path() != "hello" || main.Calls[1].Path() != "util::shout" {
		t.Fatalf("calls = %s, %s", main.Calls[0].Path(), main.Calls[1].Path())
	}
}

func TestIndexCoversEveryNode(t *testing.T) {
	sess := testSession(t, nil)
	crate, err := ParseString(sess, "hello", "hello.rs", sample)
	if err != nil {
		t.Fatal(err)
	}
	amap := Indexer{}.Index(crate)
	if len(amap) != 7 { // five items, two calls
		t.Fatalf("index has %d nodes, want 7", len(amap))
	}
	for id, n := range amap {
		if id == 0 {
			t.Fatal("node id 0 assigned")
		}
		if (n.Item == nil) == (n.Call == nil) {
			t.Fatalf("node %d must hold exactly one of item or call", id)
		}
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	sess := testSession(t, nil)
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	crate, err := ParseString(sess, "n", "n.rs", "fn "+decomposed+";\nfn main { "+composed+"(); }\n")
	if err != nil {
		t.Fatal(err)
	}
	if crate.Items[0].Name != composed || crate.Items[1].Calls[0].Name != composed {
		t.Fatalf("names not normalized: %q %q", crate.Items[0].Name, crate.Items[1].Calls[0].Name)
	}
}

func TestSyntaxErrorsAreFatal(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing semicolon", "use util\nfn main;", "expected ';'"},
		{"bad item", "let x;", "expected item"},
		{"unknown attribute", "#[inline]\nfn f;", "unknown attribute `inline`"},
		{"dangling attribute", "fn f;\n#[cfg(x)]", "attribute is not followed by an item"},
		{"unterminated string", "native \"m;\n", "expected string literal"},
		{"call without parens", "fn main { f; }", "expected '('"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			sess := testSession(t, &out)
			_, err := ParseString(sess, "bad", "bad.rs", tt.src)
			if !diag.IsFatal(err) {
				t.Fatalf("err = %v, want fatal", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %q, want it to contain %q", err.Error(), tt.want)
			}
			if !strings.HasPrefix(out.String(), "bad.rs:") {
				t.Fatalf("diagnostic lacks position: %q", out.String())
			}
		})
	}
}

func TestStrip(t *testing.T) {
	sess := testSession(t, nil)
	crate, err := ParseString(sess, "hello", "hello.rs", sample)
	if err != nil {
		t.Fatal(err)
	}

	linux := crateconfig.Set{crateconfig.NameValue("target_os", "linux")}
	if got := len(ConfigStripper{}.Strip(crate, linux).Items); got != 4 {
		t.Fatalf("linux without debug kept %d items, want 4", got)
	}
	both := append(linux, crateconfig.Word("debug"))
	if got := len(ConfigStripper{}.Strip(crate, both).Items); got != 5 {
		t.Fatalf("linux with debug kept %d items, want 5", got)
	}
	if len(crate.Items) != 5 {
		t.Fatal("Strip modified its input")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseCrateFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.rs"), "fn main { helper(); }\n")
	writeFile(t, filepath.Join(dir, "util.rs"), "fn helper;\n")
	writeFile(t, filepath.Join(dir, "app.rc"), `[crate]
name = "app"
modules = ["main.rs", "util.rs"]
libraries = ["m"]
`)

	sess := testSession(t, nil)
	crate, err := Parser{}.ParseCrateFile(sess, filepath.Join(dir, "app.rc"))
	if err != nil {
		t.Fatalf("ParseCrateFile: %v", err)
	}
	if crate.Name != "app" || len(crate.Files) != 2 {
		t.Fatalf("crate = %s, files %d", crate, len(crate.Files))
	}
	last := crate.Items[len(crate.Items)-1]
	if last.Kind != ItemNative || last.Name != "m" {
		t.Fatalf("last item = %s %s", last.Kind, last.Name)
	}

	seen := map[NodeID]bool{}
	for id := range (Indexer{}).Index(crate) {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != 4 {
		t.Fatalf("got %d nodes, want 4", len(seen))
	}
}

func TestParseCrateFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"no crate table", "name = \"x\"\n", "missing [crate]"},
		{"no name", "[crate]\nmodules = [\"a.rs\"]\n", "missing [crate].name"},
		{"no modules", "[crate]\nname = \"x\"\n", "[crate].modules"},
		{"unknown key", "[crate]\nname = \"x\"\nmodules = [\"a.rs\"]\nauthor = \"me\"\n", "unknown key crate.author"},
		{"bad toml", "[crate\n", "failed to parse crate manifest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "x.rc")
			writeFile(t, path, tt.manifest)
			_, err := Parser{}.ParseCrateFile(testSession(t, nil), path)
			if !diag.IsFatal(err) || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want fatal containing %q", err, tt.want)
			}
		})
	}
}

func TestParseSourceFileNamesCrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool.rs")
	writeFile(t, path, "fn main;\n")
	crate, err := Parser{}.ParseSourceFile(testSession(t, nil), path)
	if err != nil {
		t.Fatal(err)
	}
	if crate.Name != "tool" {
		t.Fatalf("crate name = %q", crate.Name)
	}
}
