// Package remote installs modules on demand: a YAML manifest maps
// module names to git repositories, clones land in a local module
// directory, and resolved commits are pinned in a lock file.
package remote

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// repoPath holds the parsed components of a manifest repository path.
type repoPath struct {
	// Host is the git host (e.g. "github.com").
	Host string
	// Owner is the repository owner.
	Owner string
	// Repo is the repository name.
	Repo string
	// Ref is the git ref: tag, branch, or commit SHA. Empty means the
	// default branch.
	Ref string
	// Subpath is the optional directory within the repo.
	Subpath string
}

// parseRepoPath parses "host/owner/repo" from a manifest entry.
func parseRepoPath(e ManifestEntry) (*repoPath, error) {
	parts := strings.Split(e.Repo, "/")
	if len(parts) < 3 {
		return nil, fmt.Errorf("repo must be host/owner/name, got %q", e.Repo)
	}
	return &repoPath{
		Host:    parts[0],
		Owner:   parts[1],
		Repo:    strings.Join(parts[2:], "/"),
		Ref:     e.Ref,
		Subpath: e.Subpath,
	}, nil
}

// cloneURL returns the clone URL for the repository. localhost uses
// plain http so tests can serve from a local git daemon.
func (r *repoPath) cloneURL() string {
	if r.Host == "localhost" || strings.HasPrefix(r.Host, "localhost:") {
		return fmt.Sprintf("http://%s/%s/%s.git", r.Host, r.Owner, r.Repo)
	}
	return fmt.Sprintf("https://%s/%s/%s.git", r.Host, r.Owner, r.Repo)
}

// refLabel returns the ref string for lock entries. Empty refs are
// stored as "_default" to keep the lock format three-field.
func (r *repoPath) refLabel() string {
	if r.Ref == "" {
		return "_default"
	}
	return r.Ref
}

// isImmutable reports whether the ref is a tag (v-prefixed) or a commit
// SHA. Immutable refs are fetched once; branches are re-fetched.
func (r *repoPath) isImmutable() bool {
	if r.Ref == "" {
		return false
	}
	return strings.HasPrefix(r.Ref, "v") || isSHA(r.Ref)
}

var shaPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

func isSHA(s string) bool {
	return shaPattern.MatchString(s)
}

// gitClone clones the repository into dest. Tries a shallow clone
// first; falls back to a full clone when the server lacks shallow
// capabilities.
func gitClone(r *repoPath, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("cleaning clone directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating clone directory: %w", err)
	}

	args := []string{"clone", "--depth", "1"}
	if r.Ref != "" && !isSHA(r.Ref) {
		args = append(args, "--branch", r.Ref)
	}
	args = append(args, r.cloneURL(), dest)

	if output, err := runGit(args...); err != nil {
		os.RemoveAll(dest)
		args = []string{"clone"}
		if r.Ref != "" && !isSHA(r.Ref) {
			args = append(args, "--branch", r.Ref)
		}
		args = append(args, r.cloneURL(), dest)
		if output, err = runGit(args...); err != nil {
			return fmt.Errorf("git clone %s: %s", r.cloneURL(), strings.TrimSpace(output))
		}
	}

	if isSHA(r.Ref) {
		if output, err := runGit("-C", dest, "checkout", r.Ref); err != nil {
			os.RemoveAll(dest)
			return fmt.Errorf("git checkout %s: %s", r.Ref, strings.TrimSpace(output))
		}
	}
	return nil
}

// gitCloneAtSHA clones a repo and checks out a specific commit, used
// when the lock file pins a mutable ref.
func gitCloneAtSHA(r *repoPath, dest, sha string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("cleaning clone directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating clone directory: %w", err)
	}
	if output, err := runGit("clone", r.cloneURL(), dest); err != nil {
		return fmt.Errorf("git clone %s: %s", r.cloneURL(), strings.TrimSpace(output))
	}
	if output, err := runGit("-C", dest, "checkout", sha); err != nil {
		os.RemoveAll(dest)
		return fmt.Errorf("git checkout %s: %s", sha, strings.TrimSpace(output))
	}
	return nil
}

// gitHeadSHA returns the full commit SHA for HEAD in repoDir.
func gitHeadSHA(repoDir string) (string, error) {
	cmd := exec.Command("git", "-C", repoDir, "rev-parse", "HEAD")
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD in %s: %w", repoDir, err)
	}
	return strings.TrimSpace(string(output)), nil
}

func runGit(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// findEntryPoint locates the module source file in a cloned repo.
//
// Resolution order (at the repo root or subpath):
//  1. <subpath>.pyr at the repo root (flat-file subpath)
//  2. <name>.pyr in the directory, where name is the last path element
//  3. main.pyr
//  4. exactly one .pyr file
func findEntryPoint(cloneDir string, r *repoPath) (string, error) {
	dir := cloneDir
	name := r.Repo
	if r.Subpath != "" {
		if flat := filepath.Join(cloneDir, r.Subpath+".pyr"); fileExists(flat) {
			return flat, nil
		}
		dir = filepath.Join(cloneDir, r.Subpath)
		name = filepath.Base(r.Subpath)
	}

	if p := filepath.Join(dir, name+".pyr"); fileExists(p) {
		return p, nil
	}
	if p := filepath.Join(dir, "main.pyr"); fileExists(p) {
		return p, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading module directory %s: %w", dir, err)
	}
	var sources []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pyr") {
			sources = append(sources, filepath.Join(dir, e.Name()))
		}
	}
	switch len(sources) {
	case 1:
		return sources[0], nil
	case 0:
		return "", fmt.Errorf("no .pyr files found in %s/%s/%s", r.Host, r.Owner, r.Repo)
	default:
		return "", fmt.Errorf("cannot determine entry point for %s/%s/%s: found %d .pyr files (add a %s.pyr or main.pyr)",
			r.Host, r.Owner, r.Repo, len(sources), name)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
