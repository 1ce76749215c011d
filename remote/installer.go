package remote

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GitInstaller makes manifest-listed modules importable by fetching
// their repositories and placing the module source on the loader search
// path. It satisfies the resolver's Installer interface.
type GitInstaller struct {
	manifest  *Manifest
	moduleDir string
	lockPath  string
}

// NewGitInstaller builds an installer from a manifest file and a module
// directory. The module directory is created on first install; the lock
// file lives inside it.
func NewGitInstaller(manifestPath, moduleDir string) (*GitInstaller, error) {
	m, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return &GitInstaller{
		manifest:  m,
		moduleDir: moduleDir,
		lockPath:  filepath.Join(moduleDir, "pyrite.lock"),
	}, nil
}

// ModuleDir returns the directory installs land in, for wiring into the
// loader search path.
func (g *GitInstaller) ModuleDir() string {
	return g.moduleDir
}

// Installed reports whether the module source is already in place.
func (g *GitInstaller) Installed(name string) bool {
	return fileExists(g.targetPath(name))
}

// Ensure fetches the named module if the manifest knows it. Unknown
// names return (false, nil); already installed modules return
// (true, nil) without touching the network. Clone and checkout
// failures are environment errors.
func (g *GitInstaller) Ensure(name string) (bool, error) {
	entry, ok := g.manifest.Lookup(name)
	if !ok {
		return false, nil
	}
	if g.Installed(name) {
		return true, nil
	}

	r, err := parseRepoPath(entry)
	if err != nil {
		return false, fmt.Errorf("module %s: %w", name, err)
	}

	lf, err := ReadLockFile(g.lockPath)
	if err != nil {
		return false, err
	}

	cloneDir := filepath.Join(g.moduleDir, ".cache", r.Host, r.Owner, r.Repo, r.refLabel())
	if err := g.fetch(r, entry, lf, cloneDir); err != nil {
		return false, err
	}

	sha, err := gitHeadSHA(cloneDir)
	if err != nil {
		return false, err
	}
	lf.Set(entry.Repo, r.refLabel(), sha)
	if err := WriteLockFile(g.lockPath, lf); err != nil {
		return false, err
	}

	src, err := findEntryPoint(cloneDir, r)
	if err != nil {
		return false, err
	}
	return true, g.place(src, name)
}

// fetch clones when needed: immutable refs are cloned once, mutable
// refs re-clone, preferring the locked SHA when one is pinned.
func (g *GitInstaller) fetch(r *repoPath, entry ManifestEntry, lf *LockFile, cloneDir string) error {
	if _, err := os.Stat(cloneDir); err == nil && r.isImmutable() {
		return nil
	}
	if locked := lf.Lookup(entry.Repo, r.refLabel()); locked != nil && !r.isImmutable() {
		return gitCloneAtSHA(r, cloneDir, locked.SHA)
	}
	return gitClone(r, cloneDir)
}

// place copies the module entry point to its dotted-path location in
// the module directory, e.g. "numpy.random" to numpy/random.pyr.
func (g *GitInstaller) place(src, name string) error {
	dest := g.targetPath(name)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating module directory: %w", err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading module source: %w", err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("installing %s: %w", name, err)
	}
	return nil
}

func (g *GitInstaller) targetPath(name string) string {
	parts := strings.Split(name, ".")
	return filepath.Join(append([]string{g.moduleDir}, parts...)...) + ".pyr"
}
