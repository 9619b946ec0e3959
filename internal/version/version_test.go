package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"unknown version", "", "", "unknown version"},
		{"0.3.0", "abc123", "", "0.3.0 (abc123)"},
		{"0.3.0", "abc123", "2026-01-15", "0.3.0 (abc123 2026-01-15)"},
		{"0.3.0", "", "2026-01-15", "0.3.0"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
