package repo

import (
	"strings"
)

// BranchOpts is reserved for listing variants; none are supported yet.
type BranchOpts struct{}

// Branch creates a branch pointing at HEAD's commit, or with an empty name
// lists local branches marking the current one.
func (r *Repo) Branch(name string, opts BranchOpts) (string, error) {
	if name == "" {
		return r.listBranches()
	}
	if _, ok := r.RefHash("HEAD"); !ok {
		return "", errNotValidObjectName(r.headDescription())
	}
	if r.RefExists(ToLocalRef(name)) {
		return "", errBranchAlreadyExists(name)
	}
	if err := r.UpdateRef(ToLocalRef(name), "HEAD"); err != nil {
		return "", err
	}
	return "", nil
}

func (r *Repo) listBranches() (string, error) {
	names, err := r.LocalBranchNames()
	if err != nil {
		return "", err
	}
	current, _ := r.HeadBranchName()

	var lines []string
	for _, name := range names {
		marker := "  "
		if name == current {
			marker = "* "
		}
		lines = append(lines, marker+name)
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}
