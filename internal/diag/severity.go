package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote attaches context to the previous diagnostic.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
