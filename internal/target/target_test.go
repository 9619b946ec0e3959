package target

import (
	"testing"

	"kiln/internal/diag"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		triple string
		os     OS
		arch   Arch
	}{
		{"x86_64-unknown-linux", OSLinux, ArchX64},
		{"x86_64-unknown-linux-gnu", OSLinux, ArchX64},
		{"i686-pc-win32", OSWin32, ArchX86},
		{"i386-pc-mingw32", OSWin32, ArchX86},
		{"i686-apple-darwin", OSMacOS, ArchX86},
		{"arm64-apple-darwin23.1.0", OSMacOS, ArchArm},
		{"armv7-unknown-linux-gnueabihf", OSLinux, ArchArm},
		{"xscale-unknown-linux", OSLinux, ArchArm},
		{"i786-unknown-linux", OSLinux, ArchX86},
	}
	for _, tc := range cases {
		cfg, err := Resolve(tc.triple)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tc.triple, err)
		}
		if cfg.OS != tc.os || cfg.Arch != tc.arch {
			t.Fatalf("Resolve(%q) = (%s, %s), want (%s, %s)", tc.triple, cfg.OS, cfg.Arch, tc.os, tc.arch)
		}
		if cfg.IntWidth != 32 || cfg.UintWidth != 32 || cfg.FloatWidth != 64 {
			t.Fatalf("Resolve(%q) widths = %d/%d/%d", tc.triple, cfg.IntWidth, cfg.UintWidth, cfg.FloatWidth)
		}
	}
}

func TestResolveUnknownIsFatal(t *testing.T) {
	for _, triple := range []string{"sparc-sun-solaris", "x86_64-unknown-freebsd", "mips-unknown-linux", ""} {
		_, err := Resolve(triple)
		if err == nil {
			t.Fatalf("Resolve(%q) succeeded, want fatal error", triple)
		}
		if !diag.IsFatal(err) {
			t.Fatalf("Resolve(%q) error %v is not fatal", triple, err)
		}
	}
}

func TestResolveOSOrder(t *testing.T) {
	// a triple naming two systems resolves to the earlier rule
	os, err := ResolveOS("i686-pc-mingw32-linux")
	if err != nil {
		t.Fatal(err)
	}
	if os != OSWin32 {
		t.Fatalf("got %s, want win32", os)
	}
}

func TestLibC(t *testing.T) {
	cases := map[OS]string{
		OSWin32: "msvcrt.dll",
		OSMacOS: "libc.dylib",
		OSLinux: "libc.so.6",
		OS(0):   "libc.so",
	}
	for os, want := range cases {
		if got := LibC(os); got != want {
			t.Fatalf("LibC(%d) = %q, want %q", os, got, want)
		}
	}
}

func TestCrateFileName(t *testing.T) {
	if got := CrateFileName(OSLinux, "std"); got != "libstd.so" {
		t.Fatalf("linux: %q", got)
	}
	if got := CrateFileName(OSMacOS, "std"); got != "libstd.dylib" {
		t.Fatalf("macos: %q", got)
	}
	if got := CrateFileName(OSWin32, "std"); got != "std.dll" {
		t.Fatalf("win32: %q", got)
	}
}

func TestTripleForFallback(t *testing.T) {
	cases := map[[2]string]string{
		{"linux", "amd64"}:  "x86_64-unknown-linux",
		{"windows", "386"}:  "i686-pc-mingw32",
		{"darwin", "arm64"}: "aarch64-apple-darwin",
		{"linux", "arm"}:    "arm-unknown-linux",
	}
	for in, want := range cases {
		if got := tripleFor(in[0], in[1]); got != want {
			t.Fatalf("tripleFor(%s, %s) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
