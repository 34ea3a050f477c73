package repo

import (
	"sort"
	"strings"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// StatusReport is the structured result of Status, from which the text
// rendering is built.
type StatusReport struct {
	Branch            string
	Untracked         []string
	Conflicted        []string
	ToBeCommitted     []string // "<status> <path>" lines
	NotStagedByCommit []string // "<status> <path>" lines
}

// Status reports the current branch, untracked files, unmerged paths, and
// the staged and unstaged change sets.
func (r *Repo) Status() (string, error) {
	report, err := r.StatusReport()
	if err != nil {
		return "", err
	}

	lines := []string{"On branch " + report.Branch}
	lines = append(lines, section("Untracked files:", report.Untracked)...)
	lines = append(lines, section("Unmerged paths:", report.Conflicted)...)
	lines = append(lines, section("Changes to be committed:", report.ToBeCommitted)...)
	lines = append(lines, section("Changes not staged for commit:", report.NotStagedByCommit)...)
	return strings.Join(lines, "\n"), nil
}

func section(heading string, entries []string) []string {
	if len(entries) == 0 {
		return nil
	}
	lines := []string{heading}
	lines = append(lines, entries...)
	return lines
}

// StatusReport computes the raw status sets from diffs between HEAD, the
// index, and the working copy.
func (r *Repo) StatusReport() (*StatusReport, error) {
	if err := r.assertNotBare(); err != nil {
		return nil, err
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}

	untracked, err := r.untrackedFiles(idx)
	if err != nil {
		return nil, err
	}

	headTOC := object.TOC{}
	if headHash, ok := r.RefHash("HEAD"); ok {
		headTOC, err = r.Store.CommitTOC(headHash)
		if err != nil {
			return nil, err
		}
	}
	toBeCommitted := nameStatusLines(TOCDiff(headTOC, idx.TOC(), nil))

	workTOC, err := r.workingCopyTOC(idx)
	if err != nil {
		return nil, err
	}
	notStaged := nameStatusLines(TOCDiff(idx.TOC(), workTOC, nil))

	return &StatusReport{
		Branch:            r.headDescription(),
		Untracked:         untracked,
		Conflicted:        idx.ConflictedPaths(),
		ToBeCommitted:     toBeCommitted,
		NotStagedByCommit: notStaged,
	}, nil
}

func (r *Repo) untrackedFiles(idx *Index) ([]string, error) {
	onDisk, err := r.LsRecursive(".")
	if err != nil {
		return nil, err
	}
	indexed := make(map[string]struct{})
	for _, p := range idx.Paths() {
		indexed[p] = struct{}{}
	}

	var untracked []string
	for _, p := range onDisk {
		if _, ok := indexed[p]; !ok {
			untracked = append(untracked, p)
		}
	}
	return untracked, nil
}

func nameStatusLines(dif Diff) []string {
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
	return lines
}
