package loader

import (
	"crypto/sha256"
	"sync"

	"github.com/pyrite-lang/pyrite/analysis"
)

// Interceptor wraps a base Loader so every retrieval returns the
// original source with synthesized frontmatter prepended. Sources the
// pipeline cannot parse load unmodified; retrieval errors pass through
// untouched.
type Interceptor struct {
	base     Loader
	pipeline *analysis.Pipeline

	mu    sync.Mutex
	cache map[[sha256.Size]byte][]byte
}

// Intercept wraps base. The base loader is never replaced; callers that
// hold the base directly keep its original behavior.
func Intercept(base Loader, pipeline *analysis.Pipeline) *Interceptor {
	return &Interceptor{
		base:     base,
		pipeline: pipeline,
		cache:    make(map[[sha256.Size]byte][]byte),
	}
}

func (i *Interceptor) Load(module string) ([]byte, string, error) {
	src, path, err := i.base.Load(module)
	if err != nil {
		return nil, "", err
	}
	return i.Rewrite(module, src), path, nil
}

// Rewrite returns frontmatter plus src, or src unchanged when analysis
// fails or resolves nothing. Identical source bytes are rewritten once;
// re-rewriting rewritten source is a no-op anyway because injected
// imports are bindings on the next pass.
func (i *Interceptor) Rewrite(name string, src []byte) []byte {
	key := sha256.Sum256(src)

	i.mu.Lock()
	cached, ok := i.cache[key]
	i.mu.Unlock()
	if ok {
		return cached
	}

	out := src
	if res, err := i.pipeline.Analyze(name, src); err == nil {
		if fm := res.Frontmatter(); fm != "" {
			out = append([]byte(fm), src...)
		}
	}

	i.mu.Lock()
	i.cache[key] = out
	i.mu.Unlock()
	return out
}
