package remote

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyrite.yml")
	src := `modules:
  numpy.random:
    repo: github.com/pyrite-lang/pyr-numpy
    ref: v0.2.0
    subpath: random
  requests:
    repo: github.com/pyrite-lang/pyr-requests
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}

	e, ok := m.Lookup("numpy.random")
	if !ok {
		t.Fatal("numpy.random not found")
	}
	if e.Repo != "github.com/pyrite-lang/pyr-numpy" || e.Ref != "v0.2.0" || e.Subpath != "random" {
		t.Errorf("entry = %+v", e)
	}

	e, ok = m.Lookup("requests")
	if !ok || e.Ref != "" {
		t.Errorf("requests entry = %+v, %v", e, ok)
	}

	if _, ok := m.Lookup("absent"); ok {
		t.Error("unknown module found")
	}
}

func TestReadManifestMissingFile(t *testing.T) {
	m, err := ReadManifest(filepath.Join(t.TempDir(), "pyrite.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Modules) != 0 {
		t.Errorf("modules = %v, want empty", m.Modules)
	}
}

func TestReadManifestInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyrite.yml")
	if err := os.WriteFile(path, []byte("modules: [broken\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadManifest(path); err == nil {
		t.Error("invalid YAML accepted")
	}
}

func TestParseRepoPath(t *testing.T) {
	r, err := parseRepoPath(ManifestEntry{Repo: "github.com/user/pyr-numpy", Ref: "v1.0.0", Subpath: "random"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Host != "github.com" || r.Owner != "user" || r.Repo != "pyr-numpy" {
		t.Errorf("parsed = %+v", r)
	}
	if r.Ref != "v1.0.0" || r.Subpath != "random" {
		t.Errorf("parsed = %+v", r)
	}

	if _, err := parseRepoPath(ManifestEntry{Repo: "not-a-repo"}); err == nil {
		t.Error("short repo path accepted")
	}
}

func TestCloneURL(t *testing.T) {
	r := &repoPath{Host: "github.com", Owner: "user", Repo: "mod"}
	if got := r.cloneURL(); got != "https://github.com/user/mod.git" {
		t.Errorf("cloneURL = %q", got)
	}
	local := &repoPath{Host: "localhost:8080", Owner: "user", Repo: "mod"}
	if got := local.cloneURL(); got != "http://localhost:8080/user/mod.git" {
		t.Errorf("cloneURL = %q", got)
	}
}

func TestRefLabel(t *testing.T) {
	if got := (&repoPath{}).refLabel(); got != "_default" {
		t.Errorf("refLabel = %q", got)
	}
	if got := (&repoPath{Ref: "main"}).refLabel(); got != "main" {
		t.Errorf("refLabel = %q", got)
	}
}

func TestIsImmutable(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"", false},
		{"main", false},
		{"v1.2.3", true},
		{"deadbeefcafe", true},
		{"abc123", false}, // too short for a SHA
	}
	for _, tc := range cases {
		r := &repoPath{Ref: tc.ref}
		if got := r.isImmutable(); got != tc.want {
			t.Errorf("isImmutable(%q) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}

func TestFindEntryPoint(t *testing.T) {
	clone := t.TempDir()
	write := func(rel string) {
		p := filepath.Join(clone, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x = 1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("pyr-numpy.pyr")
	r := &repoPath{Host: "h", Owner: "o", Repo: "pyr-numpy"}
	p, err := findEntryPoint(clone, r)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "pyr-numpy.pyr" {
		t.Errorf("entry = %q", p)
	}

	// Subpath as flat file.
	write("random.pyr")
	r = &repoPath{Host: "h", Owner: "o", Repo: "pyr-numpy", Subpath: "random"}
	p, err = findEntryPoint(clone, r)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "random.pyr" {
		t.Errorf("entry = %q", p)
	}

	// Subpath as directory with main.pyr.
	write("lib/main.pyr")
	r = &repoPath{Host: "h", Owner: "o", Repo: "pyr-numpy", Subpath: "lib"}
	p, err = findEntryPoint(clone, r)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "main.pyr" {
		t.Errorf("entry = %q", p)
	}
}

func TestFindEntryPointSingleSource(t *testing.T) {
	clone := t.TempDir()
	if err := os.WriteFile(filepath.Join(clone, "whatever.pyr"), []byte("x = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := findEntryPoint(clone, &repoPath{Host: "h", Owner: "o", Repo: "mod"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "whatever.pyr" {
		t.Errorf("entry = %q", p)
	}
}

func TestFindEntryPointAmbiguous(t *testing.T) {
	clone := t.TempDir()
	for _, name := range []string{"a.pyr", "b.pyr"} {
		if err := os.WriteFile(filepath.Join(clone, name), []byte("x = 1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := findEntryPoint(clone, &repoPath{Host: "h", Owner: "o", Repo: "mod"}); err == nil {
		t.Error("ambiguous entry point accepted")
	}
}

func TestInstallerUnknownModule(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGitInstaller(filepath.Join(dir, "pyrite.yml"), filepath.Join(dir, "modules"))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := g.Ensure("unlisted")
	if ok || err != nil {
		t.Errorf("Ensure(unlisted) = %v, %v; want false, nil", ok, err)
	}
}

func TestInstallerAlreadyInstalled(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "pyrite.yml")
	src := "modules:\n  mylib:\n    repo: github.com/user/pyr-mylib\n"
	if err := os.WriteFile(manifest, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	moduleDir := filepath.Join(dir, "modules")
	if err := os.MkdirAll(moduleDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(moduleDir, "mylib.pyr"), []byte("x = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := NewGitInstaller(manifest, moduleDir)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Installed("mylib") {
		t.Fatal("mylib should count as installed")
	}
	// Must not touch the network.
	ok, err := g.Ensure("mylib")
	if !ok || err != nil {
		t.Errorf("Ensure(mylib) = %v, %v; want true, nil", ok, err)
	}
}

func TestTargetPathDotted(t *testing.T) {
	g := &GitInstaller{moduleDir: "/mods"}
	want := filepath.Join("/mods", "numpy", "random") + ".pyr"
	if got := g.targetPath("numpy.random"); got != want {
		t.Errorf("targetPath = %q, want %q", got, want)
	}
}
