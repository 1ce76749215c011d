package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pyrite-lang/pyrite/analysis"
	"github.com/pyrite-lang/pyrite/parser"
)

func writeModule(t *testing.T, dir, rel, src string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFileLoaderSearchPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeModule(t, second, "util.pyr", "x = 1\n")
	writeModule(t, second, "numpy/random.pyr", "y = 2\n")

	l := NewFileLoader(first, second)

	src, path, err := l.Load("util")
	if err != nil {
		t.Fatal(err)
	}
	if string(src) != "x = 1\n" {
		t.Errorf("src = %q", src)
	}
	if !strings.HasPrefix(path, second) {
		t.Errorf("path = %q", path)
	}

	if _, _, err := l.Load("numpy.random"); err != nil {
		t.Errorf("dotted module: %v", err)
	}
}

func TestFileLoaderFirstDirWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeModule(t, first, "util.pyr", "a = 1\n")
	writeModule(t, second, "util.pyr", "b = 2\n")

	src, _, err := NewFileLoader(first, second).Load("util")
	if err != nil {
		t.Fatal(err)
	}
	if string(src) != "a = 1\n" {
		t.Errorf("src = %q, want first directory's copy", src)
	}
}

func TestFileLoaderNotFound(t *testing.T) {
	_, _, err := NewFileLoader(t.TempDir()).Load("ghost")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestNamespace(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "mylib.pyr", "z = 1\n")

	ns := Namespace{L: NewFileLoader(dir)}
	if !ns.IsModule("mylib") {
		t.Error("existing file module not recognized")
	}
	if ns.IsModule("absent") {
		t.Error("missing module recognized")
	}
	if got := ns.ModulesFor("z"); got != nil {
		t.Errorf("file modules declare no exports, got %v", got)
	}
}

type nsStub struct{ mods map[string]bool }

func (s nsStub) IsModule(path string) bool       { return s.mods[path] }
func (s nsStub) ModulesFor(name string) []string { return nil }

func testPipeline() *analysis.Pipeline {
	return analysis.NewPipeline(nsStub{mods: map[string]bool{"re": true}}, nil)
}

func TestInterceptorPrependsFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "script.pyr", "re.search('a', 'b')\n")

	i := Intercept(NewFileLoader(dir), testPipeline())
	src, _, err := i.Load("script")
	if err != nil {
		t.Fatal(err)
	}
	want := "import re\nre.search('a', 'b')\n"
	if string(src) != want {
		t.Errorf("src = %q, want %q", src, want)
	}
}

func TestInterceptorLeavesResolvedSourceAlone(t *testing.T) {
	i := Intercept(nil, testPipeline())
	src := []byte("import re\nre.search('a', 'b')\n")
	if got := i.Rewrite("s.pyr", src); string(got) != string(src) {
		t.Errorf("got %q", got)
	}
}

func TestInterceptorFailOpen(t *testing.T) {
	i := Intercept(nil, testPipeline())
	src := []byte("def :\nnot parseable\n")
	if got := i.Rewrite("bad.pyr", src); string(got) != string(src) {
		t.Errorf("unparseable source must load unmodified, got %q", got)
	}
}

func TestInterceptorPassesLoadErrors(t *testing.T) {
	i := Intercept(NewFileLoader(t.TempDir()), testPipeline())
	if _, _, err := i.Load("missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

type countingNS struct {
	mu    sync.Mutex
	calls int
}

func (c *countingNS) IsModule(path string) bool {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return path == "re"
}

func (c *countingNS) ModulesFor(name string) []string { return nil }

func TestInterceptorCachesByContent(t *testing.T) {
	ns := &countingNS{}
	i := Intercept(nil, analysis.NewPipeline(ns, nil))

	src := []byte("re.search('a', 'b')\n")
	first := i.Rewrite("s.pyr", src)
	after := ns.calls
	second := i.Rewrite("s.pyr", src)

	if string(first) != string(second) {
		t.Error("cache returned different bytes")
	}
	if ns.calls != after {
		t.Error("identical content must not be re-analyzed")
	}
}

func TestStateTransition(t *testing.T) {
	base := NewFileLoader(t.TempDir())
	s := NewState(base)

	if s.Patched() {
		t.Error("fresh state reports patched")
	}
	if s.Loader() != Loader(base) {
		t.Error("unpatched state must hand out the base loader")
	}

	s.Patch(testPipeline())
	if !s.Patched() {
		t.Error("patch did not take")
	}
	wrapped := s.Loader()
	if _, ok := wrapped.(*Interceptor); !ok {
		t.Errorf("loader after patch = %T", wrapped)
	}

	// Repatching keeps the first interceptor.
	s.Patch(testPipeline())
	if s.Loader() != wrapped {
		t.Error("second patch replaced the interceptor")
	}
	if s.Base() != Loader(base) {
		t.Error("base must stay reachable")
	}
}

func TestUnresolvedCheck(t *testing.T) {
	c := &UnresolvedCheck{Pipeline: testPipeline()}

	if err := checkSource(t, c, "re.search('a', 'b')\n"); err != nil {
		t.Errorf("resolvable source flagged: %v", err)
	}
	err := checkSource(t, c, "frob(1)\nnargle.x\n")
	if err == nil {
		t.Fatal("unresolved names not flagged")
	}
	msg := err.Error()
	if !strings.Contains(msg, "frob") || !strings.Contains(msg, "nargle.x") {
		t.Errorf("err = %v", err)
	}
}

func checkSource(t *testing.T, c *UnresolvedCheck, src string) error {
	t.Helper()
	prog, err := parser.ParseSource(src, "check.pyr")
	if err != nil {
		t.Fatal(err)
	}
	return c.Check(prog)
}
