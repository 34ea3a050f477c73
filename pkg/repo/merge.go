package repo

import (
	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// mergeDiff computes the three-way diff between receiver and giver over
// their common ancestor. Unrelated histories merge over an empty base.
func (r *Repo) mergeDiff(receiver, giver object.Hash) (Diff, error) {
	baseTOC := object.TOC{}
	if base, ok, err := r.CommonAncestor(receiver, giver); err != nil {
		return nil, err
	} else if ok {
		baseTOC, err = r.Store.CommitTOC(base)
		if err != nil {
			return nil, err
		}
	}

	receiverTOC, err := r.Store.CommitTOC(receiver)
	if err != nil {
		return nil, err
	}
	giverTOC, err := r.Store.CommitTOC(giver)
	if err != nil {
		return nil, err
	}
	return TOCDiff(receiverTOC, giverTOC, baseTOC), nil
}

// HasConflicts reports whether a three-way merge of giver into receiver
// would leave conflicted paths.
func (r *Repo) HasConflicts(receiver, giver object.Hash) (bool, error) {
	dif, err := r.mergeDiff(receiver, giver)
	if err != nil {
		return false, err
	}
	return diffHasConflicts(dif), nil
}

func diffHasConflicts(dif Diff) bool {
	for _, change := range dif {
		if change.Status == StatusConflict {
			return true
		}
	}
	return false
}

// WriteFastForwardMerge advances the current branch ref to giver, rewrites
// the index to the giver's tree, and applies the tree transition to the
// working copy. A receiver of "" stands for a branch with no commits yet.
func (r *Repo) WriteFastForwardMerge(receiver, giver object.Hash) error {
	if err := r.WriteRef(r.TerminalRef("HEAD"), string(giver)); err != nil {
		return err
	}

	giverTOC, err := r.Store.CommitTOC(giver)
	if err != nil {
		return err
	}
	if err := r.WriteIndex(NewIndexFromTOC(giverTOC)); err != nil {
		return err
	}

	if r.IsBare() {
		return nil
	}
	receiverTOC := object.TOC{}
	if receiver != "" {
		receiverTOC, err = r.Store.CommitTOC(receiver)
		if err != nil {
			return err
		}
	}
	return r.WriteWorkingCopy(TOCDiff(receiverTOC, giverTOC, nil))
}

// writeNonFastForwardMerge materializes a true merge: records MERGE_HEAD and
// MERGE_MSG, stages resolved paths at stage 0 and conflicted paths at stages
// 1/2/3, and mirrors the outcome into the working copy. Returns the merge
// diff so the caller can decide whether conflicts remain.
func (r *Repo) writeNonFastForwardMerge(receiver, giver object.Hash, giverRef string) (Diff, error) {
	if err := r.WriteRef("MERGE_HEAD", string(giver)); err != nil {
		return nil, err
	}
	if err := r.WriteRef("MERGE_MSG", "Merge "+giverRef+" into "+r.headDescription()); err != nil {
		return nil, err
	}

	dif, err := r.mergeDiff(receiver, giver)
	if err != nil {
		return nil, err
	}

	idx := NewIndex()
	for p, change := range dif {
		switch change.Status {
		case StatusConflict:
			idx.WriteConflict(p, change.Base, change.Receiver, change.Giver)
		case StatusModify:
			if err := r.stageBlob(idx, p, change.resolved()); err != nil {
				return nil, err
			}
		case StatusAdd, StatusSame:
			hash := change.Receiver
			if hash == "" {
				hash = change.Giver
			}
			if hash == "" {
				continue
			}
			if err := r.stageBlob(idx, p, hash); err != nil {
				return nil, err
			}
		}
	}
	if err := r.WriteIndex(idx); err != nil {
		return nil, err
	}

	if !r.IsBare() {
		if err := r.WriteWorkingCopy(dif); err != nil {
			return nil, err
		}
	}
	return dif, nil
}

func (r *Repo) stageBlob(idx *Index, path string, hash object.Hash) error {
	blob, err := r.Store.ReadBlob(hash)
	if err != nil {
		return err
	}
	return idx.WriteNonConflict(r.Store, path, blob.Data)
}

// Merge merges the commit that ref resolves to into the current branch.
func (r *Repo) Merge(ref string) (string, error) {
	if err := r.assertNotBare(); err != nil {
		return "", err
	}
	if r.IsHeadDetached() {
		return "", UnsupportedError()
	}

	receiver, _ := r.RefHash("HEAD")
	giver, ok := r.RefHash(ref)
	if !ok {
		return "", errExpectedCommit(ref)
	}
	if objType, err := r.Store.TypeOf(giver); err != nil {
		return "", errCorruption(err)
	} else if objType != object.TypeCommit {
		return "", errExpectedCommit(ref)
	}

	if upToDate, err := r.IsUpToDate(receiver, giver); err != nil {
		return "", err
	} else if upToDate {
		return "Already up-to-date", nil
	}

	overwritten, err := r.ChangedFilesCommitWouldOverwrite(giver)
	if err != nil {
		return "", err
	}
	if len(overwritten) > 0 {
		return "", errDirtyWorkingCopy(overwritten)
	}

	canFF, err := r.CanFastForward(receiver, giver)
	if err != nil {
		return "", err
	}
	if canFF {
		r.Logger().Debug("fast-forward merge",
			zap.String("receiver", string(receiver)),
			zap.String("giver", string(giver)))
		if err := r.WriteFastForwardMerge(receiver, giver); err != nil {
			return "", err
		}
		return "Fast-forward", nil
	}

	dif, err := r.writeNonFastForwardMerge(receiver, giver, ref)
	if err != nil {
		return "", err
	}
	if diffHasConflicts(dif) {
		r.Logger().Info("merge produced conflicts", zap.String("giver", ref))
		return "Automatic merge failed. Fix conflicts and commit the result.", nil
	}
	return r.Commit(CommitOpts{})
}
