package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"kiln/internal/diag"
	"kiln/internal/driver"
	"kiln/internal/link"
	"kiln/internal/metadata"
	"kiln/internal/session"
	"kiln/internal/target"
)

type fakeRunner struct {
	names []string
	args  [][]string
	codes map[string]int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	f.names = append(f.names, name)
	f.args = append(f.args, args)
	return f.codes[name], nil
}

type sliceSink struct{ events []Event }

func (s *sliceSink) OnEvent(ev Event) { s.events = append(s.events, ev) }

func setup(t *testing.T, src string, mutate func(*session.Options)) (string, *session.Session) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "hello.rs")
	if err := os.WriteFile(input, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	tc, err := target.Resolve("x86_64-unknown-linux-gnu")
	if err != nil {
		t.Fatal(err)
	}
	opts := session.DefaultOptions()
	opts.Sysroot = dir
	opts.LibrarySearchPaths = []string{filepath.Join(dir, "lib")}
	if mutate != nil {
		mutate(&opts)
	}
	return input, session.New(tc, opts, nil)
}

func request(input string, sess *session.Session, runner *fakeRunner) *BuildRequest {
	return &BuildRequest{
		Input:   input,
		Session: sess,
		Phases:  driver.DefaultPhases(runner),
		Runner:  runner,
		Tools:   link.DefaultTools(),
	}
}

func TestBuildExecutable(t *testing.T) {
	input, sess := setup(t, "fn main { helper(); }\nfn helper;\n", nil)
	runner := &fakeRunner{}
	sink := &sliceSink{}
	req := request(input, sess, runner)
	req.Progress = sink

	res, err := Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	base := input[:len(input)-len(".rs")]
	if res.Paths.Final != base || res.Paths.Intermediate != base+".o" {
		t.Fatalf("paths = %+v", res.Paths)
	}
	if want := []string{"clang", "gcc", "rm"}; !reflect.DeepEqual(runner.names, want) {
		t.Fatalf("commands = %v, want %v", runner.names, want)
	}
	if got := runner.args[2]; !reflect.DeepEqual(got, []string{base + ".o"}) {
		t.Fatalf("rm args = %v", got)
	}

	last := sink.events[len(sink.events)-1]
	if last.Phase != PhaseLink || last.Status != StatusDone {
		t.Fatalf("last event = %+v", last)
	}
	working := 0
	for _, ev := range sink.events {
		if ev.Status == StatusWorking {
			working++
		}
	}
	if working != len(driver.PhaseNames)+1 {
		t.Fatalf("got %d phase starts, want %d", working, len(driver.PhaseNames)+1)
	}
}

func TestBuildObjectSkipsLink(t *testing.T) {
	input, sess := setup(t, "fn helper;\n", func(o *session.Options) { o.Output = session.OutputObject })
	runner := &fakeRunner{}
	if _, err := Build(context.Background(), request(input, sess, runner)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(runner.names, []string{"clang"}) {
		t.Fatalf("commands = %v", runner.names)
	}
}

func TestBuildGatesLinkOnErrors(t *testing.T) {
	input, sess := setup(t, "fn main { missing(); }\n", nil)
	runner := &fakeRunner{}
	_, err := Build(context.Background(), request(input, sess, runner))
	if !diag.IsFatal(err) {
		t.Fatalf("err = %v, want fatal", err)
	}
	for _, n := range runner.names {
		if n == "gcc" {
			t.Fatal("linker ran despite errors")
		}
	}
}

func TestBuildFinalGateWithoutLink(t *testing.T) {
	input, sess := setup(t, "fn f { missing(); }\n", func(o *session.Options) { o.Output = session.OutputAssembly })
	_, err := Build(context.Background(), request(input, sess, &fakeRunner{}))
	if !diag.IsFatal(err) {
		t.Fatalf("err = %v, want the final gate to abort", err)
	}
}

func TestBuildParseOnlyAcceptsSemanticErrors(t *testing.T) {
	input, sess := setup(t, "fn main { nowhere(); krate::f(); }\n", func(o *session.Options) { o.Output = session.OutputNone })
	runner := &fakeRunner{}
	if _, err := Build(context.Background(), request(input, sess, runner)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(runner.names) != 0 {
		t.Fatalf("commands = %v", runner.names)
	}
}

func TestBuildSharedWritesMetadata(t *testing.T) {
	input, sess := setup(t, "native \"m\";\npub fn api;\nfn internal;\n", func(o *session.Options) { o.Shared = true })
	runner := &fakeRunner{}
	req := request(input, sess, runner)
	req.Output = filepath.Join(filepath.Dir(input), "libhello.so")

	if _, err := Build(context.Background(), req); err != nil {
		t.Fatalf("Build: %v", err)
	}
	meta, ok, err := metadata.Read(req.Output)
	if err != nil || !ok {
		t.Fatalf("metadata: ok=%v err=%v", ok, err)
	}
	if meta.Name != "hello" || !reflect.DeepEqual(meta.Exports, []string{"api"}) || !reflect.DeepEqual(meta.NativeLibs, []string{"m"}) {
		t.Fatalf("metadata = %+v", meta)
	}
}

func TestGlue(t *testing.T) {
	_, sess := setup(t, "", nil)
	runner := &fakeRunner{}
	out, err := Glue(context.Background(), &GlueRequest{Session: sess, Phases: driver.DefaultPhases(runner)})
	if err != nil {
		t.Fatalf("Glue: %v", err)
	}
	if out != DefaultGlueOutput {
		t.Fatalf("out = %q", out)
	}
	args := runner.args[0]
	if args[len(args)-1] != DefaultGlueOutput {
		t.Fatalf("clang args = %v", args)
	}
}
