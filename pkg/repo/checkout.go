package repo

import (
	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// Checkout switches HEAD, the index, and the working copy to the commit that
// ref resolves to. Checking out a raw hash detaches HEAD.
func (r *Repo) Checkout(ref string) (string, error) {
	if err := r.assertNotBare(); err != nil {
		return "", err
	}

	toHash, ok := r.RefHash(ref)
	if !ok || !r.Store.Has(toHash) {
		return "", errUnknownTarget(ref)
	}
	objType, err := r.Store.TypeOf(toHash)
	if err != nil {
		return "", errCorruption(err)
	}
	if objType != object.TypeCommit {
		return "", errNotATree(ref)
	}

	currentBranch, _ := r.HeadBranchName()
	headContent, _ := r.ReadRef("HEAD")
	if ref == currentBranch || ref == headContent {
		return "Already on " + ref, nil
	}

	overwritten, err := r.ChangedFilesCommitWouldOverwrite(toHash)
	if err != nil {
		return "", err
	}
	if len(overwritten) > 0 {
		return "", errDirtyWorkingCopy(overwritten)
	}

	// Checking out something that names an object directly detaches HEAD;
	// a branch name keeps it symbolic.
	detaching := object.IsHash(ref) && r.Store.Has(object.Hash(ref))

	headHash, _ := r.RefHash("HEAD")
	dif, err := r.commitPairDiff(headHash, toHash)
	if err != nil {
		return "", err
	}
	if err := r.WriteWorkingCopy(dif); err != nil {
		return "", err
	}

	headContentNew := "ref: " + ToLocalRef(ref)
	if detaching {
		headContentNew = string(toHash)
	}
	if err := r.WriteRef("HEAD", headContentNew); err != nil {
		return "", err
	}

	toc, err := r.Store.CommitTOC(toHash)
	if err != nil {
		return "", err
	}
	if err := r.WriteIndex(NewIndexFromTOC(toc)); err != nil {
		return "", err
	}

	r.Logger().Debug("checkout",
		zap.String("target", ref),
		zap.Bool("detached", detaching))

	if detaching {
		return "Note: checking out " + string(toHash) + "\nYou are in detached HEAD state.", nil
	}
	return "Switched to branch " + ref, nil
}
