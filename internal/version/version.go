// Package version carries the build identity of kilnc.
package version

// These variables can be overridden at build time via
// -ldflags "-X kiln/internal/version.Version=0.3.0".
var (
	// Version is the released version of the compiler.
	Version = "unknown version"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String renders the version line printed by --version, without the
// program name.
func String() string {
	s := Version
	if GitCommit != "" {
		s += " (" + GitCommit
		if BuildDate != "" {
			s += " " + BuildDate
		}
		s += ")"
	}
	return s
}
