package target

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// HostTriple reports the triple of the machine the driver runs on. clang's
// answer is preferred; without clang the triple is synthesized from the Go
// runtime.
func HostTriple(ctx context.Context) string {
	if ctx == nil {
		ctx = context.Background()
	}
	if out, err := exec.CommandContext(ctx, "clang", "-dumpmachine").Output(); err == nil {
		if triple := strings.TrimSpace(string(out)); triple != "" {
			return triple
		}
	}
	return tripleFor(runtime.GOOS, runtime.GOARCH)
}

func tripleFor(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "386":
		arch = "i686"
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}
	switch goos {
	case "windows":
		return arch + "-pc-mingw32"
	case "darwin":
		return arch + "-apple-darwin"
	default:
		return arch + "-unknown-" + goos
	}
}
