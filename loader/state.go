package loader

import (
	"sync"
	"sync/atomic"

	"github.com/pyrite-lang/pyrite/analysis"
)

// State owns the one-way Unpatched to Patched transition for a
// runtime's loader. The base loader reference is fixed at construction
// and remains reachable after patching; the wrapped loader is written
// before the flag flips, so a reader that observes Patched always sees
// the interceptor.
type State struct {
	base    Loader
	wrapped Loader
	patched atomic.Bool
	once    sync.Once
}

// NewState tracks base in the Unpatched state.
func NewState(base Loader) *State {
	return &State{base: base}
}

// Patch installs the interceptor. Safe to call from any goroutine any
// number of times; only the first call has an effect.
func (s *State) Patch(pipeline *analysis.Pipeline) {
	s.once.Do(func() {
		s.wrapped = Intercept(s.base, pipeline)
		s.patched.Store(true)
	})
}

// Patched reports whether the transition has happened.
func (s *State) Patched() bool {
	return s.patched.Load()
}

// Loader returns the loader to use right now: the base before patching,
// the interceptor after.
func (s *State) Loader() Loader {
	if s.patched.Load() {
		return s.wrapped
	}
	return s.base
}

// Base returns the original loader regardless of state.
func (s *State) Base() Loader {
	return s.base
}
