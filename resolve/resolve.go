// Package resolve maps free names onto the importable-module namespace.
// It decides, per reference, which module import and which alias
// assignment (if any) would make the name defined, and records a
// diagnostic for every name it has to give up on.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInstall marks resolution failures caused by the install
// environment rather than by an unknown name.
var ErrInstall = errors.New("install failed")

// Namespace is the importable-module universe the resolver consults.
// The modules registry satisfies it; tests supply small fakes.
type Namespace interface {
	// IsModule reports whether path names a registered module.
	// Dotted paths are allowed ("os.path", "numpy.random").
	IsModule(path string) bool
	// ModulesFor returns the modules that declare name among their
	// exports, sorted.
	ModulesFor(name string) []string
}

// Installer is the external collaborator that can make a module
// importable on demand. Ensure returns (false, nil) for names it does
// not know, and an error only for environment failures.
type Installer interface {
	Ensure(name string) (bool, error)
}

// Kind distinguishes the two binding request forms.
type Kind int

const (
	// ImportReq requests `import Module`.
	ImportReq Kind = iota
	// AliasReq requests `Name = Path`.
	AliasReq
)

// Request is one synthesized binding operation.
type Request struct {
	Kind   Kind
	Module string // ImportReq: the module path to import
	Name   string // AliasReq: the name being bound
	Path   string // AliasReq: the full dotted path assigned to Name
}

// ImportOf builds an import request.
func ImportOf(module string) Request {
	return Request{Kind: ImportReq, Module: module}
}

// AliasOf builds an alias request.
func AliasOf(name, path string) Request {
	return Request{Kind: AliasReq, Name: name, Path: path}
}

// Key returns the dedup identity of a request.
func (r Request) Key() string {
	if r.Kind == ImportReq {
		return "import " + r.Module
	}
	return "alias " + r.Name
}

// Drop records a free name the resolver could not bind. Err is nil for
// plain unknown names and wraps ErrInstall when the installer failed.
type Drop struct {
	Name string
	Err  error
}

// Resolver resolves free references against a Namespace, with an
// optional Installer fallback. A Resolver is not safe for concurrent
// use; each load event gets its own.
type Resolver struct {
	ns        Namespace
	installer Installer
	tried     map[string]bool
}

// New returns a Resolver over ns. installer may be nil.
func New(ns Namespace, installer Installer) *Resolver {
	return &Resolver{ns: ns, installer: installer, tried: make(map[string]bool)}
}

// Qualified resolves the dotted path of a qualified reference to the
// module that must be imported: the longest registered prefix of the
// path excluding its final attribute. When no prefix is registered the
// installer is asked for the root name once, then the lookup retried.
func (r *Resolver) Qualified(path string) (string, bool, error) {
	if m, ok := r.longestPrefix(path); ok {
		return m, true, nil
	}
	root := path[:strings.IndexByte(path+".", '.')]
	installed, err := r.ensure(root)
	if err != nil {
		return "", false, err
	}
	if installed {
		if m, ok := r.longestPrefix(path); ok {
			return m, true, nil
		}
	}
	return "", false, nil
}

// Bare resolves a bare free name. In order: the name is itself a
// module; exactly one registered module exports the name (import plus
// alias); the installer makes one of the former true. Ambiguous
// exports and unknown names return no requests.
func (r *Resolver) Bare(name string) ([]Request, error) {
	if reqs := r.bareOnce(name); reqs != nil {
		return reqs, nil
	}
	installed, err := r.ensure(name)
	if err != nil {
		return nil, err
	}
	if installed {
		if reqs := r.bareOnce(name); reqs != nil {
			return reqs, nil
		}
	}
	return nil, nil
}

func (r *Resolver) bareOnce(name string) []Request {
	if r.ns.IsModule(name) {
		return []Request{ImportOf(name)}
	}
	if mods := r.ns.ModulesFor(name); len(mods) == 1 {
		return []Request{
			ImportOf(mods[0]),
			AliasOf(name, mods[0]+"."+name),
		}
	}
	return nil
}

// longestPrefix finds the longest registered module among the proper
// dotted prefixes of path (at least the final component is always
// treated as an attribute, not part of the module).
func (r *Resolver) longestPrefix(path string) (string, bool) {
	parts := strings.Split(path, ".")
	for i := len(parts) - 1; i >= 1; i-- {
		prefix := strings.Join(parts[:i], ".")
		if r.ns.IsModule(prefix) {
			return prefix, true
		}
	}
	return "", false
}

// ensure invokes the installer at most once per name per Resolver.
func (r *Resolver) ensure(name string) (bool, error) {
	if r.installer == nil || r.tried[name] {
		return false, nil
	}
	r.tried[name] = true
	ok, err := r.installer.Ensure(name)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInstall, name, err)
	}
	return ok, nil
}

// Set accumulates requests preserving first-seen order with dedup by
// request identity.
type Set struct {
	reqs []Request
	seen map[string]bool
}

// NewSet returns an empty request set.
func NewSet() *Set {
	return &Set{seen: make(map[string]bool)}
}

// Add appends req unless an identical request was already added.
func (s *Set) Add(req Request) {
	key := req.Key()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.reqs = append(s.reqs, req)
}

// Requests returns the accumulated requests in insertion order.
func (s *Set) Requests() []Request {
	return s.reqs
}

// Multi composes namespaces. A path is a module when any member says
// so; export candidates are merged, deduplicated, and sorted.
type Multi []Namespace

func (m Multi) IsModule(path string) bool {
	for _, ns := range m {
		if ns.IsModule(path) {
			return true
		}
	}
	return false
}

func (m Multi) ModulesFor(name string) []string {
	seen := make(map[string]bool)
	var mods []string
	for _, ns := range m {
		for _, mod := range ns.ModulesFor(name) {
			if !seen[mod] {
				seen[mod] = true
				mods = append(mods, mod)
			}
		}
	}
	sort.Strings(mods)
	return mods
}
