package toolchain

import (
	"bytes"
	"context"
	"testing"
)

func TestExecRunner(t *testing.T) {
	tests := []struct {
		name      string
		program   string
		args      []string
		wantCode  int
		wantErr   bool
		wantPrint string
	}{
		{"success", "true", []string{"-x", "ir"}, 0, false, "true -x ir\n"},
		{"non-zero exit", "false", nil, 1, false, "false\n"},
		{"missing program", "kilnc-no-such-program", []string{"a"}, -1, true, "kilnc-no-such-program a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			r := NewExecRunner(&out, &errOut, true)
			code, err := r.Run(context.Background(), tt.program, tt.args...)
			if (err != nil) != tt.wantErr || code != tt.wantCode {
				t.Fatalf("Run = %d, %v; want %d, err %v", code, err, tt.wantCode, tt.wantErr)
			}
			if out.String() != tt.wantPrint {
				t.Fatalf("printed %q, want %q", out.String(), tt.wantPrint)
			}
		})
	}
}

func TestExecRunnerQuiet(t *testing.T) {
	var out bytes.Buffer
	r := NewExecRunner(&out, &bytes.Buffer{}, false)
	if code, err := r.Run(context.Background(), "true"); code != 0 || err != nil {
		t.Fatalf("Run = %d, %v", code, err)
	}
	if out.Len() != 0 {
		t.Fatalf("printed %q without PrintCommands", out.String())
	}
}

func TestCommandLine(t *testing.T) {
	if got := CommandLine("gcc", nil); got != "gcc" {
		t.Fatalf("CommandLine(gcc) = %q", got)
	}
	if got := CommandLine("gcc", []string{"-o", "a", "a.o"}); got != "gcc -o a a.o" {
		t.Fatalf("CommandLine = %q", got)
	}
}
