package remote

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestEntry describes where one installable module lives.
type ManifestEntry struct {
	// Repo is the repository path (e.g. "github.com/user/pyr-numpy").
	Repo string `yaml:"repo"`
	// Ref is the git ref to fetch: tag, branch, or commit SHA. Empty
	// means the default branch.
	Ref string `yaml:"ref,omitempty"`
	// Subpath selects a directory within the repository for monorepos.
	Subpath string `yaml:"subpath,omitempty"`
}

// Manifest is the module index: importable module name to source
// repository.
//
//	modules:
//	  numpy.random:
//	    repo: github.com/pyrite-lang/pyr-numpy
//	    ref: v0.2.0
//	    subpath: random
type Manifest struct {
	Modules map[string]ManifestEntry `yaml:"modules"`
}

// ReadManifest loads a manifest file. A missing file yields an empty
// manifest, not an error.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Lookup finds the entry for a module name.
func (m *Manifest) Lookup(name string) (ManifestEntry, bool) {
	e, ok := m.Modules[name]
	return e, ok
}
