// Package outpath derives the file names a compilation writes.
package outpath

import (
	"fmt"
	"path/filepath"
	"strings"

	"kiln/internal/session"
)

// Paths names the artifact handed to the user (Final) and the file the
// backend writes (Intermediate). They differ only for executables, where the
// backend produces an object that the linker turns into Final.
type Paths struct {
	Final        string
	Intermediate string
}

// Suffix returns the file extension the backend uses for kind.
func Suffix(kind session.OutputKind) string {
	switch kind {
	case session.OutputNone:
		return "pp"
	case session.OutputBitcode:
		return "bc"
	case session.OutputAssembly:
		return "s"
	case session.OutputObject, session.OutputExecutable:
		return "o"
	default:
		panic(fmt.Sprintf("outpath: invalid output kind %d", kind))
	}
}

// Resolve computes the paths for input. userOutput is the -o value, empty
// when not given.
func Resolve(input, userOutput string, kind session.OutputKind) Paths {
	if userOutput != "" {
		p := Paths{Final: userOutput, Intermediate: userOutput}
		if kind == session.OutputExecutable {
			p.Intermediate = userOutput + ".o"
		}
		return p
	}

	base := stem(input)
	p := Paths{Intermediate: base + "." + Suffix(kind)}
	if kind == session.OutputExecutable {
		p.Final = base
	} else {
		p.Final = p.Intermediate
	}
	return p
}

// stem drops the last extension of the final path element.
func stem(path string) string {
	dir, file := filepath.Split(path)
	return dir + strings.TrimSuffix(file, filepath.Ext(file))
}
