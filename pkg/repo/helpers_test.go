package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// newTestRepo creates an empty non-bare repository in a temp directory.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir(), InitOpts{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

// writeFile writes content at a repo-relative path in the working copy.
func writeFile(t *testing.T, r *Repo, rel, content string) {
	t.Helper()
	abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// commitFile writes, stages, and commits one file, returning the new HEAD.
func commitFile(t *testing.T, r *Repo, rel, content, msg string) object.Hash {
	t.Helper()
	writeFile(t, r, rel, content)
	if err := r.Add(rel); err != nil {
		t.Fatalf("Add(%s): %v", rel, err)
	}
	if _, err := r.Commit(CommitOpts{Message: msg}); err != nil {
		t.Fatalf("Commit(%s): %v", msg, err)
	}
	head, ok := r.RefHash("HEAD")
	if !ok {
		t.Fatal("HEAD did not resolve after commit")
	}
	return head
}

// fileContent reads a working-copy file; missing files fail the test.
func fileContent(t *testing.T, r *Repo, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// fileExists reports presence of a working-copy file.
func fileExists(r *Repo, rel string) bool {
	_, err := os.Stat(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
	return err == nil
}
