package repo

import (
	"fmt"
	"os"
)

// UpdateIndexOpts selects the update_index case: Add stages new files,
// Remove drops disappeared ones.
type UpdateIndexOpts struct {
	Add    bool
	Remove bool
}

// RmOpts mirrors the rm flags; Force is deliberately unsupported.
type RmOpts struct {
	Recursive bool
	Force     bool
}

// Add stages every working-copy file at or under path.
func (r *Repo) Add(path string) error {
	if err := r.assertNotBare(); err != nil {
		return err
	}
	rel, err := r.repoRelPath(path)
	if err != nil {
		return errNoMatch(path)
	}

	matched, err := r.LsRecursive(rel)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return errNoMatch(rel)
	}
	for _, p := range matched {
		if err := r.UpdateIndex(p, UpdateIndexOpts{Add: true}); err != nil {
			return err
		}
	}
	return nil
}

// Rm unstages and deletes every indexed file at or under path. Files with
// local changes are refused; directories require Recursive.
func (r *Repo) Rm(path string, opts RmOpts) error {
	if err := r.assertNotBare(); err != nil {
		return err
	}
	if opts.Force {
		return UnsupportedError()
	}

	rel, err := r.repoRelPath(path)
	if err != nil {
		return errNoMatch(path)
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	filesToRm := idx.MatchingFiles(rel)
	if len(filesToRm) == 0 {
		return errNoMatch(rel)
	}

	if info, statErr := os.Stat(r.workingCopyPath(rel)); statErr == nil && info.IsDir() && !opts.Recursive {
		return errNotRemovingRecursively(rel)
	}

	addedOrModified, err := r.AddedOrModifiedFiles()
	if err != nil {
		return err
	}
	changed := intersect(addedOrModified, filesToRm)
	if len(changed) > 0 {
		return errChangedFiles(changed)
	}

	for _, p := range filesToRm {
		if err := os.Remove(r.workingCopyPath(p)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("rm %q: %w", p, err)
		}
	}
	for _, p := range filesToRm {
		if err := r.UpdateIndex(p, UpdateIndexOpts{Remove: true}); err != nil {
			return err
		}
	}
	return nil
}

// UpdateIndex reconciles one path between disk and index by case analysis
// over (on disk, in index, opts).
func (r *Repo) UpdateIndex(path string, opts UpdateIndexOpts) error {
	rel, err := r.repoRelPath(path)
	if err != nil {
		return errNoMatch(path)
	}
	abs := r.workingCopyPath(rel)

	info, statErr := os.Stat(abs)
	onDisk := statErr == nil

	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	inIndex := idx.HasFile(rel, StageNormal) || idx.IsFileInConflict(rel)

	switch {
	case onDisk && info.IsDir():
		return errIsDirectory(rel)

	case opts.Remove && !onDisk && inIndex:
		if idx.IsFileInConflict(rel) {
			return UnsupportedError()
		}
		idx.WriteRm(rel)
		return r.WriteIndex(idx)

	case opts.Remove && !onDisk && !inIndex:
		return nil

	case !opts.Add && onDisk && !inIndex:
		return errCannotAddToIndex(rel)

	case onDisk && (opts.Add || inIndex):
		content, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("update index: read %q: %w", rel, err)
		}
		if err := idx.WriteNonConflict(r.Store, rel, content); err != nil {
			return err
		}
		return r.WriteIndex(idx)

	case !opts.Remove && !onDisk:
		return errNotOnDisk(rel)
	}
	return nil
}

// intersect returns the members of a that also appear in b, preserving a's
// order.
func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := inB[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
