package repo

import (
	"sort"
	"strings"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// FileStatus classifies what happened to a path between two sides of a diff.
type FileStatus string

const (
	StatusAdd      FileStatus = "A"
	StatusModify   FileStatus = "M"
	StatusDelete   FileStatus = "D"
	StatusConflict FileStatus = "C"
	StatusSame     FileStatus = "SAME"
)

// PathChange carries the per-path outcome of a diff together with the blob
// hashes on each side; empty hash means absent.
type PathChange struct {
	Status   FileStatus
	Receiver object.Hash
	Giver    object.Hash
	Base     object.Hash
}

// Diff maps path to its change between receiver and giver.
type Diff map[string]PathChange

// TOCDiff computes the per-path status across (base, receiver, giver). A nil
// base means a plain two-way diff: base defaults to the receiver side.
//
// Three-way rules: agreement is no change; a change on exactly one side is
// taken; differing changes on both sides conflict, including deletion on one
// side against modification on the other.
func TOCDiff(receiver, giver, base object.TOC) Diff {
	if base == nil {
		base = receiver
	}

	paths := make(map[string]struct{})
	for _, toc := range []object.TOC{receiver, giver, base} {
		for p := range toc {
			paths[p] = struct{}{}
		}
	}

	dif := make(Diff, len(paths))
	for p := range paths {
		r, g, b := receiver[p], giver[p], base[p]
		dif[p] = PathChange{
			Status:   fileStatus(r, g, b),
			Receiver: r,
			Giver:    g,
			Base:     b,
		}
	}
	return dif
}

func fileStatus(receiver, giver, base object.Hash) FileStatus {
	switch {
	case receiver == giver:
		return StatusSame
	case receiver != "" && giver != "":
		if receiver != base && giver != base {
			return StatusConflict
		}
		return StatusModify
	case base == "":
		// Present on exactly one side with no base: an addition.
		return StatusAdd
	default:
		// One side deleted. If the surviving side still matches the base it
		// is a plain deletion; a change against a deletion conflicts.
		survivor := receiver
		if survivor == "" {
			survivor = giver
		}
		if survivor != base {
			return StatusConflict
		}
		return StatusDelete
	}
}

// resolved returns the blob hash a non-conflicting change settles on: the
// side that moved away from the base.
func (c PathChange) resolved() object.Hash {
	if c.Giver != c.Base {
		return c.Giver
	}
	return c.Receiver
}

// NameStatus projects a diff to path -> status, dropping unchanged paths.
func NameStatus(dif Diff) map[string]FileStatus {
	ns := make(map[string]FileStatus)
	for p, change := range dif {
		if change.Status != StatusSame {
			ns[p] = change.Status
		}
	}
	return ns
}

// DiffRange computes the diff between two revisions. An empty ref1 uses the
// index TOC as the left side; an empty ref2 uses the working copy as the
// right side.
func (r *Repo) DiffRange(ref1, ref2 string) (Diff, error) {
	left, err := r.diffSide(ref1, false)
	if err != nil {
		return nil, err
	}
	right, err := r.diffSide(ref2, true)
	if err != nil {
		return nil, err
	}
	return TOCDiff(left, right, nil), nil
}

func (r *Repo) diffSide(ref string, workingCopyDefault bool) (object.TOC, error) {
	if ref == "" {
		idx, err := r.ReadIndex()
		if err != nil {
			return nil, err
		}
		if workingCopyDefault {
			return r.workingCopyTOC(idx)
		}
		return idx.TOC(), nil
	}

	hash, ok := r.RefHash(ref)
	if !ok {
		return nil, errUnknownRevision(ref)
	}
	return r.Store.CommitTOC(hash)
}

// DiffNameStatus renders a name-status listing between two revisions:
// one "<status> <path>" line per changed path, sorted by path.
func (r *Repo) DiffNameStatus(ref1, ref2 string) (string, error) {
	if err := r.assertNotBare(); err != nil {
		return "", err
	}
	dif, err := r.DiffRange(ref1, ref2)
	if err != nil {
		return "", err
	}

	ns := NameStatus(dif)
	paths := make([]string, 0, len(ns))
	for p := range ns {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var lines []string
	for _, p := range paths {
		lines = append(lines, string(ns[p])+" "+p)
	}
	return strings.Join(lines, "\n"), nil
}
