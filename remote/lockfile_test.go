package remote

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLockFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyrite.lock")

	lf := NewLockFile()
	lf.Set("github.com/user/pyr-numpy", "v1.0.0", "abc123def456abc123def456abc123def456abcd")
	lf.Set("github.com/user/pyr-requests", "_default", "1111111111111111111111111111111111111111")

	if err := WriteLockFile(path, lf); err != nil {
		t.Fatal(err)
	}

	read, err := ReadLockFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(read.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(read.Entries))
	}

	e := read.Lookup("github.com/user/pyr-numpy", "v1.0.0")
	if e == nil {
		t.Fatal("entry not found after round trip")
	}
	if e.SHA != "abc123def456abc123def456abc123def456abcd" {
		t.Errorf("SHA = %q", e.SHA)
	}
}

func TestLockFileMissing(t *testing.T) {
	lf, err := ReadLockFile(filepath.Join(t.TempDir(), "absent.lock"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lf.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(lf.Entries))
	}
}

func TestLockFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyrite.lock")
	if err := os.WriteFile(path, []byte("just two\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLockFile(path); err == nil {
		t.Error("malformed line accepted")
	}
}

func TestLockFileSetUpdatesInPlace(t *testing.T) {
	lf := NewLockFile()
	lf.Set("github.com/user/mod", "main", "aaaa")
	lf.Set("github.com/user/mod", "main", "bbbb")

	if len(lf.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(lf.Entries))
	}
	if lf.Entries[0].SHA != "bbbb" {
		t.Errorf("SHA = %q, want bbbb", lf.Entries[0].SHA)
	}
}

func TestLockFileDistinctRefs(t *testing.T) {
	lf := NewLockFile()
	lf.Set("github.com/user/mod", "v1.0.0", "aaaa")
	lf.Set("github.com/user/mod", "v2.0.0", "bbbb")

	if len(lf.Entries) != 2 {
		t.Errorf("got %d entries, want 2", len(lf.Entries))
	}
}

func TestWriteEmptyLockFileRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyrite.lock")
	if err := os.WriteFile(path, []byte("# stale\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteLockFile(path, NewLockFile()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty lock file should remove the file")
	}
}
