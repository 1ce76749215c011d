// Package loader retrieves module source by import name and hosts the
// interception point where implicit-import frontmatter is prepended.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader retrieves the source of a module. path is where the source was
// found, for error messages. A module that does not exist returns an
// error wrapping os.ErrNotExist.
type Loader interface {
	Load(module string) (src []byte, path string, err error)
}

// FileLoader maps dotted module names to .pyr files across a search
// path: "numpy.random" becomes numpy/random.pyr in the first directory
// that has it.
type FileLoader struct {
	Paths []string
}

// NewFileLoader builds a loader over the given directories, searched in
// order.
func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{Paths: paths}
}

func (l *FileLoader) Load(module string) ([]byte, string, error) {
	rel := filepath.Join(strings.Split(module, ".")...) + ".pyr"
	for _, dir := range l.Paths {
		p := filepath.Join(dir, rel)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("module %q: %w", module, os.ErrNotExist)
}

// Namespace is a resolver-side view of a FileLoader's search path: a
// dotted name is a module when its file exists. File modules declare no
// exports.
type Namespace struct {
	L *FileLoader
}

func (n Namespace) IsModule(path string) bool {
	rel := filepath.Join(strings.Split(path, ".")...) + ".pyr"
	for _, dir := range n.L.Paths {
		if info, err := os.Stat(filepath.Join(dir, rel)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func (n Namespace) ModulesFor(name string) []string { return nil }
