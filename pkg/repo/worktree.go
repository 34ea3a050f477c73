package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// LsRecursive lists working-copy files at or under the given repo-relative
// path, as sorted repo-relative slash paths. The repository's internal
// subtree is skipped. A missing path yields an empty list.
func (r *Repo) LsRecursive(rel string) ([]string, error) {
	rel = filepath.ToSlash(filepath.Clean(rel))
	root := r.workingCopyPath(rel)

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ls %q: %w", rel, err)
	}
	if !info.IsDir() {
		return []string{rel}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == markerDir {
				return filepath.SkipDir
			}
			return nil
		}
		relPath, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ls %q: %w", rel, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// workingCopyTOC hashes the on-disk content of every indexed path that still
// exists, yielding the table of contents of the working copy.
func (r *Repo) workingCopyTOC(idx *Index) (object.TOC, error) {
	toc := make(object.TOC)
	for _, p := range idx.Paths() {
		content, err := os.ReadFile(r.workingCopyPath(p))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("working copy toc: read %q: %w", p, err)
		}
		toc[p] = object.HashObject(object.TypeBlob, content)
	}
	return toc, nil
}

// WriteWorkingCopy applies a diff to the working copy: additions and
// modifications materialize the resolved blob, deletions unlink the file,
// and conflicts materialize both sides between conflict markers.
func (r *Repo) WriteWorkingCopy(dif Diff) error {
	for p, change := range dif {
		abs := r.workingCopyPath(p)
		switch change.Status {
		case StatusAdd:
			hash := change.Receiver
			if hash == "" {
				hash = change.Giver
			}
			if err := r.writeWorkingCopyBlob(abs, hash); err != nil {
				return err
			}
		case StatusModify:
			if err := r.writeWorkingCopyBlob(abs, change.resolved()); err != nil {
				return err
			}
		case StatusConflict:
			content, err := r.composeConflict(change.Receiver, change.Giver)
			if err != nil {
				return err
			}
			if err := writeWorkingCopyFile(abs, content); err != nil {
				return err
			}
		case StatusDelete:
			if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("working copy: remove %q: %w", p, err)
			}
			r.removeEmptyParents(filepath.Dir(abs))
		}
	}
	return nil
}

func (r *Repo) writeWorkingCopyBlob(abs string, hash object.Hash) error {
	blob, err := r.Store.ReadBlob(hash)
	if err != nil {
		return err
	}
	return writeWorkingCopyFile(abs, blob.Data)
}

func writeWorkingCopyFile(abs string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("working copy: mkdir %q: %w", filepath.Dir(abs), err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("working copy: write %q: %w", abs, err)
	}
	return nil
}

// composeConflict materializes both sides of a conflicted path between
// conventional markers. An absent side contributes empty content.
func (r *Repo) composeConflict(receiver, giver object.Hash) ([]byte, error) {
	side := func(h object.Hash) ([]byte, error) {
		if h == "" {
			return nil, nil
		}
		blob, err := r.Store.ReadBlob(h)
		if err != nil {
			return nil, err
		}
		return blob.Data, nil
	}

	ours, err := side(receiver)
	if err != nil {
		return nil, err
	}
	theirs, err := side(giver)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<<<<<<\n")
	b.Write(ours)
	b.WriteString("\n======\n")
	b.Write(theirs)
	b.WriteString("\n>>>>>>\n")
	return []byte(b.String()), nil
}

// removeEmptyParents prunes empty directories up to (but excluding) the
// repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}

// ChangedFilesCommitWouldOverwrite returns the paths that differ between
// HEAD and toHash and also carry local changes relative to HEAD. A non-empty
// result blocks checkout and merge.
func (r *Repo) ChangedFilesCommitWouldOverwrite(toHash object.Hash) ([]string, error) {
	headHash, _ := r.RefHash("HEAD")

	localDiff, err := r.diffAgainstHead(headHash)
	if err != nil {
		return nil, err
	}
	headToTarget, err := r.commitPairDiff(headHash, toHash)
	if err != nil {
		return nil, err
	}

	local := NameStatus(localDiff)
	var overwritten []string
	for p := range NameStatus(headToTarget) {
		if _, dirty := local[p]; dirty {
			overwritten = append(overwritten, p)
		}
	}
	sort.Strings(overwritten)
	return overwritten, nil
}

func (r *Repo) diffAgainstHead(headHash object.Hash) (Diff, error) {
	headTOC := object.TOC{}
	if headHash != "" {
		var err error
		headTOC, err = r.Store.CommitTOC(headHash)
		if err != nil {
			return nil, err
		}
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	workTOC, err := r.workingCopyTOC(idx)
	if err != nil {
		return nil, err
	}
	return TOCDiff(headTOC, workTOC, nil), nil
}

func (r *Repo) commitPairDiff(fromHash, toHash object.Hash) (Diff, error) {
	fromTOC := object.TOC{}
	if fromHash != "" {
		var err error
		fromTOC, err = r.Store.CommitTOC(fromHash)
		if err != nil {
			return nil, err
		}
	}
	toTOC, err := r.Store.CommitTOC(toHash)
	if err != nil {
		return nil, err
	}
	return TOCDiff(fromTOC, toTOC, nil), nil
}

// AddedOrModifiedFiles returns the paths whose working-copy content differs
// from their stage-0 entry.
func (r *Repo) AddedOrModifiedFiles() ([]string, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	workTOC, err := r.workingCopyTOC(idx)
	if err != nil {
		return nil, err
	}

	var changed []string
	for p, status := range NameStatus(TOCDiff(idx.TOC(), workTOC, nil)) {
		if status == StatusAdd || status == StatusModify {
			changed = append(changed, p)
		}
	}
	sort.Strings(changed)
	return changed, nil
}
