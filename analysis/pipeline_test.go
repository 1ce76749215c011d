package analysis

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyrite-lang/pyrite/resolve"
)

type fakeNS struct {
	mods    map[string]bool
	exports map[string][]string
}

func (f *fakeNS) IsModule(path string) bool       { return f.mods[path] }
func (f *fakeNS) ModulesFor(name string) []string { return f.exports[name] }

// fakeInstaller registers a module into the namespace when asked for
// one of the names it knows, mimicking an install making the module
// visible on retry.
type fakeInstaller struct {
	ns       *fakeNS
	provides map[string]string // bare name -> module it installs
	fail     map[string]error
	calls    []string
}

func (f *fakeInstaller) Ensure(name string) (bool, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.fail[name]; ok {
		return false, err
	}
	mod, ok := f.provides[name]
	if !ok {
		return false, nil
	}
	f.ns.mods[mod] = true
	return true, nil
}

func stdNS() *fakeNS {
	return &fakeNS{
		mods: map[string]bool{
			"re":           true,
			"os":           true,
			"os.path":      true,
			"json":         true,
			"numpy":        true,
			"numpy.random": true,
		},
		exports: map[string][]string{
			"default_rng": {"numpy.random"},
			"sqrt":        {"math"},
		},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	src := "re.search('a', 'a')\ndef f():\n    data = default_rng().random((2, 2))\n"
	ns := stdNS()
	ns.mods["math"] = true
	p := NewPipeline(ns, nil)

	res, err := p.Analyze("script.pyr", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Dropped) != 0 {
		t.Fatalf("dropped %v", res.Dropped)
	}

	want := "import re\nimport numpy.random\ndefault_rng = numpy.random.default_rng\n"
	if got := res.Frontmatter(); got != want {
		t.Errorf("frontmatter = %q, want %q", got, want)
	}
}

func TestPipelineQualifiedLongestPrefix(t *testing.T) {
	p := NewPipeline(stdNS(), nil)
	res, err := p.Analyze("s.pyr", []byte("os.path.join('a', 'b')\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []resolve.Request{resolve.ImportOf("os.path")}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineObservedAlias(t *testing.T) {
	src := "numpy.random.default_rng(7)\nr = default_rng()\n"
	p := NewPipeline(stdNS(), nil)
	res, err := p.Analyze("s.pyr", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []resolve.Request{
		resolve.ImportOf("numpy.random"),
		resolve.AliasOf("default_rng", "numpy.random.default_rng"),
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineDropsUnknown(t *testing.T) {
	p := NewPipeline(stdNS(), nil)
	res, err := p.Analyze("s.pyr", []byte("frobnicate(1)\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Requests) != 0 {
		t.Errorf("requests = %v, want none", res.Requests)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].Name != "frobnicate" {
		t.Fatalf("dropped = %v", res.Dropped)
	}
	if res.Dropped[0].Err != nil {
		t.Errorf("plain unknown carries no error, got %v", res.Dropped[0].Err)
	}
}

func TestPipelineInstallerFallback(t *testing.T) {
	ns := stdNS()
	inst := &fakeInstaller{ns: ns, provides: map[string]string{"requests": "requests"}}
	p := NewPipeline(ns, inst)

	res, err := p.Analyze("s.pyr", []byte("requests.get(url)\nurl = 'x'\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []resolve.Request{resolve.ImportOf("requests")}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	if len(inst.calls) != 1 || inst.calls[0] != "requests" {
		t.Errorf("installer calls = %v", inst.calls)
	}
}

func TestPipelineInstallErrorDiagnostic(t *testing.T) {
	ns := stdNS()
	inst := &fakeInstaller{ns: ns, fail: map[string]error{"lxml": errors.New("clone failed")}}
	p := NewPipeline(ns, inst)

	res, err := p.Analyze("s.pyr", []byte("lxml.parse(f)\nf = 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Dropped) != 1 {
		t.Fatalf("dropped = %v", res.Dropped)
	}
	if !errors.Is(res.Dropped[0].Err, resolve.ErrInstall) {
		t.Errorf("err = %v, want ErrInstall", res.Dropped[0].Err)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	src := "re.search('a', 'a')\ndef f():\n    data = default_rng().random((2, 2))\n"
	p := NewPipeline(stdNS(), nil)

	first, err := p.Analyze("s.pyr", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	again, err := p.Analyze("s.pyr", []byte(first.Frontmatter()+src))
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Requests) != 0 {
		t.Errorf("rewritten source still yields requests: %v", again.Requests)
	}
}

func TestSynthesizeOrdering(t *testing.T) {
	got := Synthesize([]resolve.Request{
		resolve.AliasOf("default_rng", "numpy.random.default_rng"),
		resolve.ImportOf("re"),
		resolve.ImportOf("numpy.random"),
	})
	want := "import re\nimport numpy.random\ndefault_rng = numpy.random.default_rng\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	if got := Synthesize(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
