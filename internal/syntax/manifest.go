package syntax

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifest is the TOML shape of a `.rc` crate file:
//
//	[crate]
//	name = "app"
//	modules = ["main.rs", "util.rs"]
//	libraries = ["m"]
type manifest struct {
	Crate crateSection `toml:"crate"`
}

type crateSection struct {
	Name      string   `toml:"name"`
	Modules   []string `toml:"modules"`
	Libraries []string `toml:"libraries"`
}

func loadManifest(path string) (manifest, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return manifest{}, fmt.Errorf("%s: failed to parse crate manifest: %w", path, err)
	}
	if !meta.IsDefined("crate") {
		return manifest{}, fmt.Errorf("%s: missing [crate]", path)
	}
	if !meta.IsDefined("crate", "name") || strings.TrimSpace(m.Crate.Name) == "" {
		return manifest{}, fmt.Errorf("%s: missing [crate].name", path)
	}
	if !meta.IsDefined("crate", "modules") || len(m.Crate.Modules) == 0 {
		return manifest{}, fmt.Errorf("%s: [crate].modules must list at least one module", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return manifest{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	m.Crate.Name = strings.TrimSpace(m.Crate.Name)
	return m, nil
}
