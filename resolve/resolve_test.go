package resolve

import (
	"errors"
	"testing"
)

type mapNS struct {
	mods    map[string]bool
	exports map[string][]string
}

func (m mapNS) IsModule(path string) bool       { return m.mods[path] }
func (m mapNS) ModulesFor(name string) []string { return m.exports[name] }

type countingInstaller struct {
	known map[string]bool
	err   error
	calls map[string]int
	ns    mapNS
}

func (c *countingInstaller) Ensure(name string) (bool, error) {
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
	if c.err != nil {
		return false, c.err
	}
	if !c.known[name] {
		return false, nil
	}
	c.ns.mods[name] = true
	return true, nil
}

func testNS() mapNS {
	return mapNS{
		mods: map[string]bool{
			"os":           true,
			"os.path":      true,
			"numpy":        true,
			"numpy.random": true,
		},
		exports: map[string][]string{
			"default_rng": {"numpy.random"},
			"load":        {"json", "pickle"},
		},
	}
}

func TestQualifiedLongestPrefix(t *testing.T) {
	r := New(testNS(), nil)

	for _, tc := range []struct {
		path, want string
	}{
		{"os.getcwd", "os"},
		{"os.path.join", "os.path"},
		{"numpy.random.default_rng", "numpy.random"},
		{"numpy.array", "numpy"},
	} {
		mod, ok, err := r.Qualified(tc.path)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		if !ok || mod != tc.want {
			t.Errorf("Qualified(%q) = %q, %v; want %q", tc.path, mod, ok, tc.want)
		}
	}
}

func TestQualifiedFinalComponentIsAttribute(t *testing.T) {
	// "os.path" as a full reference means attribute path of module os,
	// never module os.path on its own.
	r := New(testNS(), nil)
	mod, ok, _ := r.Qualified("os.path")
	if !ok || mod != "os" {
		t.Errorf("Qualified(os.path) = %q, %v; want os", mod, ok)
	}
}

func TestQualifiedUnknown(t *testing.T) {
	r := New(testNS(), nil)
	_, ok, err := r.Qualified("nothere.fn")
	if ok || err != nil {
		t.Errorf("got ok=%v err=%v, want miss without error", ok, err)
	}
}

func TestBareModule(t *testing.T) {
	r := New(testNS(), nil)
	reqs, err := r.Bare("os")
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 1 || reqs[0] != ImportOf("os") {
		t.Errorf("reqs = %v", reqs)
	}
}

func TestBareUniqueExport(t *testing.T) {
	r := New(testNS(), nil)
	reqs, err := r.Bare("default_rng")
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 2 {
		t.Fatalf("reqs = %v", reqs)
	}
	if reqs[0] != ImportOf("numpy.random") {
		t.Errorf("reqs[0] = %v", reqs[0])
	}
	if reqs[1] != AliasOf("default_rng", "numpy.random.default_rng") {
		t.Errorf("reqs[1] = %v", reqs[1])
	}
}

func TestBareAmbiguousExport(t *testing.T) {
	r := New(testNS(), nil)
	reqs, err := r.Bare("load")
	if len(reqs) != 0 || err != nil {
		t.Errorf("ambiguous export must not resolve, got %v, %v", reqs, err)
	}
}

func TestInstallerRetry(t *testing.T) {
	ns := testNS()
	inst := &countingInstaller{known: map[string]bool{"requests": true}, ns: ns}
	r := New(ns, inst)

	reqs, err := r.Bare("requests")
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 1 || reqs[0] != ImportOf("requests") {
		t.Errorf("reqs = %v", reqs)
	}
}

func TestInstallerOncePerName(t *testing.T) {
	ns := testNS()
	inst := &countingInstaller{ns: ns}
	r := New(ns, inst)

	r.Bare("mystery")
	r.Bare("mystery")
	if _, _, err := r.Qualified("mystery.fn"); err != nil {
		t.Fatal(err)
	}
	if inst.calls["mystery"] != 1 {
		t.Errorf("Ensure called %d times, want 1", inst.calls["mystery"])
	}
}

func TestInstallerErrorWrapped(t *testing.T) {
	ns := testNS()
	inst := &countingInstaller{err: errors.New("network down"), ns: ns}
	r := New(ns, inst)

	_, err := r.Bare("whatever")
	if !errors.Is(err, ErrInstall) {
		t.Errorf("err = %v, want ErrInstall", err)
	}
}

func TestSetDedup(t *testing.T) {
	s := NewSet()
	s.Add(ImportOf("re"))
	s.Add(ImportOf("os"))
	s.Add(ImportOf("re"))
	s.Add(AliasOf("default_rng", "numpy.random.default_rng"))
	s.Add(AliasOf("default_rng", "other.default_rng"))

	reqs := s.Requests()
	if len(reqs) != 3 {
		t.Fatalf("reqs = %v", reqs)
	}
	if reqs[0] != ImportOf("re") || reqs[1] != ImportOf("os") {
		t.Errorf("order not preserved: %v", reqs)
	}
	if reqs[2].Path != "numpy.random.default_rng" {
		t.Errorf("first alias must win, got %v", reqs[2])
	}
}

func TestMulti(t *testing.T) {
	a := mapNS{
		mods:    map[string]bool{"re": true},
		exports: map[string][]string{"search": {"re"}},
	}
	b := mapNS{
		mods:    map[string]bool{"helpers": true},
		exports: map[string][]string{"search": {"helpers"}},
	}
	m := Multi{a, b}

	if !m.IsModule("re") || !m.IsModule("helpers") || m.IsModule("json") {
		t.Error("IsModule must consult every member")
	}
	mods := m.ModulesFor("search")
	if len(mods) != 2 || mods[0] != "helpers" || mods[1] != "re" {
		t.Errorf("ModulesFor = %v, want sorted merge", mods)
	}
}
