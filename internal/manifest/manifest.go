// Package manifest reads the package manifest of the library under
// analysis. Only the [package] table matters here: the name labels the
// report, the version seeds the version advisor.
package manifest

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Manifest is the subset of a package manifest the tool consumes.
type Manifest struct {
	Package Package `toml:"package"`
}

// Package is the [package] table.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Load parses the manifest at path.
func Load(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return Manifest{}, fmt.Errorf("manifest %s: missing package.name", path)
	}
	if m.Package.Version == "" {
		return Manifest{}, fmt.Errorf("manifest %s: missing package.version", path)
	}
	return m, nil
}
