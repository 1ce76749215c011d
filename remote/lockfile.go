package remote

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LockEntry pins one installed module to a resolved commit.
type LockEntry struct {
	// Module is the repo path (e.g. "github.com/user/pyr-numpy").
	Module string
	// Ref is the requested ref label (e.g. "v1.0.0", "main", "_default").
	Ref string
	// SHA is the resolved full commit SHA.
	SHA string
}

// lockKey returns the deduplication key for a lock entry. A module can
// appear with different refs.
func (e *LockEntry) lockKey() string {
	return e.Module + "@" + e.Ref
}

// LockFile holds all lock entries for a module directory.
type LockFile struct {
	Entries []*LockEntry
	index   map[string]*LockEntry
}

// NewLockFile creates an empty lock file.
func NewLockFile() *LockFile {
	return &LockFile{index: make(map[string]*LockEntry)}
}

// Lookup finds the lock entry for a module and ref label. Returns nil
// if not found.
func (lf *LockFile) Lookup(module, ref string) *LockEntry {
	if lf.index == nil {
		return nil
	}
	return lf.index[module+"@"+ref]
}

// Set adds or updates a lock entry.
func (lf *LockFile) Set(module, ref, sha string) {
	if lf.index == nil {
		lf.index = make(map[string]*LockEntry)
	}
	entry := &LockEntry{Module: module, Ref: ref, SHA: sha}
	key := entry.lockKey()
	if existing, ok := lf.index[key]; ok {
		existing.SHA = sha
		return
	}
	lf.Entries = append(lf.Entries, entry)
	lf.index[key] = entry
}

// ReadLockFile reads a pyrite.lock file. Returns an empty LockFile if
// the file does not exist. Malformed lines are an error; unknown
// modules in valid lines are tolerated and preserved.
func ReadLockFile(path string) (*LockFile, error) {
	lf := NewLockFile()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return lf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("pyrite.lock:%d: expected 3 fields (module ref sha), got %d", lineNum, len(fields))
		}

		lf.Set(fields[0], fields[1], fields[2])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	return lf, nil
}

// WriteLockFile writes the lock file to disk. An empty lock file
// removes any existing file.
func WriteLockFile(path string, lf *LockFile) error {
	if len(lf.Entries) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing empty lock file: %w", err)
		}
		return nil
	}

	var sb strings.Builder
	sb.WriteString("# pyrite.lock — auto-generated, do not edit\n")
	for _, e := range lf.Entries {
		fmt.Fprintf(&sb, "%s %s %s\n", e.Module, e.Ref, e.SHA)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}
	return nil
}
