package diag

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"

	"kiln/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	b.Add(Diagnostic{Severity: SevWarning, Message: "w"})
	b.Add(Diagnostic{Severity: SevNote, Message: "n"})
	if b.HasErrors() {
		t.Fatal("no errors expected yet")
	}
	if b.Add(Diagnostic{Severity: SevError, Message: "e"}) {
		t.Fatal("Add past the limit must fail")
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
}

func TestFatalWrapping(t *testing.T) {
	err := fmt.Errorf("link: %w", &FatalError{Msg: "boom", Err: ErrAborted, Reported: true})
	if !IsFatal(err) {
		t.Fatal("wrapped FatalError not detected")
	}
	if !IsReported(err) {
		t.Fatal("Reported flag lost")
	}
	if !errors.Is(err, ErrAborted) {
		t.Fatal("ErrAborted not reachable through Unwrap")
	}
	if IsFatal(errors.New("plain")) {
		t.Fatal("plain error reported as fatal")
	}
}

func TestPrinter(t *testing.T) {
	color.NoColor = true
	files := source.NewFileSet()
	id, err := files.AddVirtual("m.rs", []byte("fn a;\nuse nope;\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	p := Printer{Out: &buf, Files: files}
	p.Print(&Diagnostic{
		Severity: SevError,
		Message:  "can't find crate for `nope`",
		Primary:  source.Span{File: id, Start: 10, End: 14},
		HasSpan:  true,
		Notes:    []Note{{Msg: "searched 1 directory"}},
	})
	want := "m.rs:2:5: error: can't find crate for `nope`\nnote: searched 1 directory\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
