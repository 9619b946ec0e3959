// Package metadata reads and writes the metadata sidecar that sits beside
// every shared crate (`libfoo.so` + `libfoo.so.kmeta`).
package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever Crate changes shape.
const SchemaVersion uint16 = 1

// Suffix is appended to a library path to name its sidecar.
const Suffix = ".kmeta"

// Crate describes what a compiled crate offers to its users.
type Crate struct {
	Schema     uint16
	Name       string
	Hash       [32]byte // sha256 of the crate's sources
	Exports    []string // public function names
	NativeLibs []string // libraries the crate needs at link time
}

// SidecarPath returns the metadata path for a library file.
func SidecarPath(lib string) string {
	if strings.HasSuffix(lib, Suffix) {
		return lib
	}
	return lib + Suffix
}

// HasExport reports whether fn is exported by c.
func (c *Crate) HasExport(fn string) bool {
	for _, e := range c.Exports {
		if e == fn {
			return true
		}
	}
	return false
}

// Write encodes c next to lib, replacing any previous sidecar atomically.
func Write(lib string, c *Crate) error {
	if c == nil {
		return errors.New("metadata: nil crate")
	}
	path := SidecarPath(lib)
	f, err := os.CreateTemp(filepath.Dir(path), ".kmeta-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmp)
	}()

	payload := *c
	payload.Schema = SchemaVersion
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("metadata: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Read decodes the sidecar of lib (or lib itself when it already names a
// sidecar). ok is false when no sidecar exists.
func Read(lib string) (c *Crate, ok bool, err error) {
	path := SidecarPath(lib)
	// #nosec G304 -- path comes from the library search path
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Crate
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, true, fmt.Errorf("metadata: decode %s: %w", path, err)
	}
	if out.Schema != SchemaVersion {
		return nil, true, fmt.Errorf("metadata: %s has schema %d, want %d", path, out.Schema, SchemaVersion)
	}
	return &out, true, nil
}

// List prints the metadata of lib in a stable, line-oriented form.
func List(w io.Writer, lib string) error {
	c, ok, err := Read(lib)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no crate metadata found for %s", lib)
	}
	if _, err := fmt.Fprintf(w, "crate %s\nhash %x\n", c.Name, c.Hash); err != nil {
		return err
	}
	for _, e := range c.Exports {
		if _, err := fmt.Fprintf(w, "fn %s\n", e); err != nil {
			return err
		}
	}
	for _, l := range c.NativeLibs {
		if _, err := fmt.Fprintf(w, "native %s\n", l); err != nil {
			return err
		}
	}
	return nil
}
