package outpath

import (
	"testing"

	"kiln/internal/session"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		kind   session.OutputKind
		want   Paths
	}{
		{"executable default", "hello.rs", "", session.OutputExecutable, Paths{"hello", "hello.o"}},
		{"executable with -o", "hello.rs", "out", session.OutputExecutable, Paths{"out", "out.o"}},
		{"object default", "hello.rs", "", session.OutputObject, Paths{"hello.o", "hello.o"}},
		{"assembly default", "hello.rs", "", session.OutputAssembly, Paths{"hello.s", "hello.s"}},
		{"bitcode default", "hello.rs", "", session.OutputBitcode, Paths{"hello.bc", "hello.bc"}},
		{"none default", "hello.rs", "", session.OutputNone, Paths{"hello.pp", "hello.pp"}},
		{"bitcode with -o", "hello.rs", "x.bc", session.OutputBitcode, Paths{"x.bc", "x.bc"}},
		{"manifest input", "app.rc", "", session.OutputExecutable, Paths{"app", "app.o"}},
		{"directory kept", "src/app/main.rs", "", session.OutputObject, Paths{"src/app/main.o", "src/app/main.o"}},
		{"dotted directory", "v1.2/main.rs", "", session.OutputExecutable, Paths{"v1.2/main", "v1.2/main.o"}},
		{"only last extension", "a.b.rs", "", session.OutputAssembly, Paths{"a.b.s", "a.b.s"}},
		{"no extension", "prog", "", session.OutputObject, Paths{"prog.o", "prog.o"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.input, tt.output, tt.kind); got != tt.want {
				t.Fatalf("Resolve(%q, %q, %s) = %+v, want %+v", tt.input, tt.output, tt.kind, got, tt.want)
			}
		})
	}
}
