package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// markerDir is the repository subtree name for non-bare repositories.
const markerDir = ".version"

// DefaultBranch is the branch HEAD points at after init.
const DefaultBranch = "master"

// InitOpts controls repository creation.
type InitOpts struct {
	Bare bool
}

// Init creates a repository at path. For non-bare repositories the internal
// subtree lives under .version/; bare repositories carry it at the root.
// Initializing inside an existing repository is a no-op that returns the
// opened handle.
func Init(path string, opts InitOpts) (*Repo, error) {
	if existing, err := Open(path); err == nil {
		return existing, nil
	}

	versionDir := filepath.Join(path, markerDir)
	if opts.Bare {
		versionDir = path
	}

	dirs := []string{
		filepath.Join(versionDir, "objects"),
		filepath.Join(versionDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(versionDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/"+DefaultBranch+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	r := &Repo{
		RootDir:    path,
		VersionDir: versionDir,
		Store:      object.NewStore(versionDir),
	}
	if err := r.WriteConfig(&Config{Bare: opts.Bare, Remotes: map[string]string{}}); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return r, nil
}

// Open searches upward from path for a repository and opens it. A directory
// qualifies if it holds a .version/ subtree, or if it is itself a bare
// repository (its config file carries a [core] section).
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		if versionDir, ok := repositoryDirAt(cur); ok {
			return &Repo{
				RootDir:    cur,
				VersionDir: versionDir,
				Store:      object.NewStore(versionDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, NotInRepoError()
		}
		cur = parent
	}
}

// repositoryDirAt reports whether dir is a repository root, returning its
// internal directory. Bare detection mirrors the marker contract: a config
// file with a [core] section makes the directory itself the repository.
func repositoryDirAt(dir string) (string, bool) {
	marker := filepath.Join(dir, markerDir)
	if info, err := os.Stat(marker); err == nil && info.IsDir() {
		return marker, true
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "config"))
	if err == nil && strings.Contains(string(cfg), "[core]") {
		return dir, true
	}
	return "", false
}

// IsInRepo reports whether path is inside a repository.
func IsInRepo(path string) bool {
	_, err := Open(path)
	return err == nil
}

// workingCopyPath resolves a repo-relative slash path to an absolute
// filesystem path.
func (r *Repo) workingCopyPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

// repoRelPath converts a caller-supplied path (absolute or relative to the
// repo root) into the repo-relative slash form used as object and index keys.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("path %q is outside the repository", p)
		}
		return filepath.ToSlash(rel), nil
	}
	return filepath.ToSlash(filepath.Clean(p)), nil
}
