package alias

import (
	"strings"
	"testing"

	"kiln/internal/diag"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/target"
	"kiln/internal/typeck"
)

func setup(t *testing.T, src string) (*session.Session, syntax.ASTMap, resolve.DefMap, *syntax.Crate) {
	t.Helper()
	tc, err := target.Resolve("x86_64-unknown-linux-gnu")
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(tc, session.DefaultOptions(), nil)
	crate, err := syntax.ParseString(sess, "app", "app.rs", src)
	if err != nil {
		t.Fatal(err)
	}
	amap := syntax.Indexer{}.Index(crate)
	defs, err := resolve.Resolver{}.Resolve(sess, amap, crate)
	if err != nil {
		t.Fatal(err)
	}
	return sess, amap, defs, crate
}

func TestConsistentTablesPass(t *testing.T) {
	sess, amap, defs, crate := setup(t, "native \"m\";\nfn main { helper(); m(); }\nfn helper;\n")
	tcx := typeck.Checker{}.NewContext(sess, defs, amap)
	if err := (Checker{}).Check(tcx, crate); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCorruptDefinitionIsFatal(t *testing.T) {
	sess, amap, defs, crate := setup(t, "native \"m\";\nfn main { helper(); }\nfn helper;\n")
	call := crate.Functions()[0].Calls[0]
	def := defs[call.ID]
	def.Item = crate.Items[0].ID // the native item, not a function
	defs[call.ID] = def

	err := (Checker{}).Check(typeck.Checker{}.NewContext(sess, defs, amap), crate)
	if !diag.IsFatal(err) || !strings.Contains(err.Error(), "not a fn item") {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingDefinitionWithoutErrorsIsFatal(t *testing.T) {
	sess, amap, defs, crate := setup(t, "fn main { helper(); }\nfn helper;\n")
	delete(defs, crate.Functions()[0].Calls[0].ID)

	err := (Checker{}).Check(typeck.Checker{}.NewContext(sess, defs, amap), crate)
	if !diag.IsFatal(err) {
		t.Fatalf("err = %v, want fatal", err)
	}
}

func TestUnresolvedCallAfterReportedErrorIsTolerated(t *testing.T) {
	sess, amap, defs, crate := setup(t, "fn main { nowhere(); }\n")
	if !sess.HasErrors() {
		t.Fatal("expected a resolution error")
	}
	if err := (Checker{}).Check(typeck.Checker{}.NewContext(sess, defs, amap), crate); err != nil {
		t.Fatalf("Check: %v", err)
	}
}
