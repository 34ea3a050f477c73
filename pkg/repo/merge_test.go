package repo

import (
	"reflect"
	"strings"
	"testing"
)

// divergedRepo builds: base on master, then master and feat each with one
// extra commit. Returns the repo positioned on feat.
func divergedRepo(t *testing.T, masterEdit, featEdit func(*Repo)) *Repo {
	t.Helper()
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "base\n", "base")
	if _, err := r.Branch("feat", BranchOpts{}); err != nil {
		t.Fatalf("Branch: %v", err)
	}
	masterEdit(r)
	if _, err := r.Checkout("feat"); err != nil {
		t.Fatalf("Checkout feat: %v", err)
	}
	featEdit(r)
	return r
}

// Scenario: fast-forward merge advances the branch without a new commit.
func TestMerge_FastForward(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "1\n", "c1")
	if _, err := r.Branch("feat", BranchOpts{}); err != nil {
		t.Fatalf("Branch: %v", err)
	}
	masterHash := commitFile(t, r, "b.txt", "2\n", "c2")

	if _, err := r.Checkout("feat"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	out, err := r.Merge("master")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Fast-forward" {
		t.Errorf("output = %q", out)
	}

	featHash, _ := r.RefHash("feat")
	if featHash != masterHash {
		t.Errorf("feat = %s, want %s", featHash, masterHash)
	}
	if !fileExists(r, "b.txt") {
		t.Error("b.txt not materialized")
	}

	// Index now mirrors the giver's tree.
	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	toc, err := r.Store.CommitTOC(masterHash)
	if err != nil {
		t.Fatalf("CommitTOC: %v", err)
	}
	if !reflect.DeepEqual(idx.TOC(), toc) {
		t.Error("index does not match giver tree after fast-forward")
	}
}

func TestMerge_AlreadyUpToDate(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "1\n", "c1")
	if _, err := r.Branch("feat", BranchOpts{}); err != nil {
		t.Fatalf("Branch: %v", err)
	}
	commitFile(t, r, "a.txt", "2\n", "c2")

	out, err := r.Merge("feat")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Already up-to-date" {
		t.Errorf("output = %q", out)
	}
}

// Scenario: both sides modified the same file differently.
func TestMerge_Conflict(t *testing.T) {
	r := divergedRepo(t,
		func(r *Repo) { commitFile(t, r, "a.txt", "master\n", "on master") },
		func(r *Repo) { commitFile(t, r, "a.txt", "feat\n", "on feat") },
	)
	featHash, _ := r.RefHash("feat")
	masterHash, _ := r.RefHash("master")

	out, err := r.Merge("master")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Automatic merge failed. Fix conflicts and commit the result." {
		t.Errorf("output = %q", out)
	}

	content := fileContent(t, r, "a.txt")
	for _, want := range []string{"<<<<<<", "======", ">>>>>>", "feat\n", "master\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("conflict file missing %q:\n%s", want, content)
		}
	}

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	for _, stage := range []Stage{StageBase, StageOurs, StageTheirs} {
		if !idx.HasFile("a.txt", stage) {
			t.Errorf("stage %d missing for a.txt", stage)
		}
	}
	if idx.HasFile("a.txt", StageNormal) {
		t.Error("conflicted path still has stage 0")
	}

	// Commit is refused while conflict stages remain.
	_, err = r.Commit(CommitOpts{Message: "nope"})
	if KindOf(err) != ErrUnresolvedConflicts {
		t.Fatalf("kind = %v, err = %v", KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "U a.txt") {
		t.Errorf("message = %q", err.Error())
	}

	// Resolving and committing closes the merge with two parents.
	writeFile(t, r, "a.txt", "resolved\n")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out, err = r.Commit(CommitOpts{})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if out != "Merge made by the three-way strategy" {
		t.Errorf("output = %q", out)
	}

	head, _ := r.RefHash("HEAD")
	c, err := r.Store.ReadCommit(head)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(c.Parents) != 2 || c.Parents[0] != featHash || c.Parents[1] != masterHash {
		t.Errorf("parents = %v, want [%s %s]", c.Parents, featHash, masterHash)
	}
	if r.IsMergeInProgress() {
		t.Error("MERGE_HEAD still present after closing commit")
	}
	if _, ok := r.ReadRef("MERGE_MSG"); ok {
		t.Error("MERGE_MSG still present after closing commit")
	}
}

// A clean three-way merge commits immediately and leaves no merge state.
func TestMerge_CleanAutoCommit(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "base-a\n", "base a")
	commitFile(t, r, "b.txt", "base-b\n", "base b")
	if _, err := r.Branch("feat", BranchOpts{}); err != nil {
		t.Fatalf("Branch: %v", err)
	}
	commitFile(t, r, "a.txt", "master-a\n", "on master")
	if _, err := r.Checkout("feat"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	commitFile(t, r, "b.txt", "feat-b\n", "on feat")

	out, err := r.Merge("master")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Merge made by the three-way strategy" {
		t.Errorf("output = %q", out)
	}

	if fileContent(t, r, "a.txt") != "master-a\n" {
		t.Error("master side change not taken")
	}
	if fileContent(t, r, "b.txt") != "feat-b\n" {
		t.Error("feat side change lost")
	}

	head, _ := r.RefHash("HEAD")
	c, err := r.Store.ReadCommit(head)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(c.Parents) != 2 {
		t.Errorf("merge commit has %d parents", len(c.Parents))
	}
	if c.Message != "Merge master into feat" {
		t.Errorf("message = %q", c.Message)
	}
	if r.IsMergeInProgress() {
		t.Error("merge state left behind")
	}
}

// Deletion on one side against modification on the other conflicts.
func TestMerge_DeleteModifyConflict(t *testing.T) {
	r := divergedRepo(t,
		func(r *Repo) {
			if err := r.Rm("a.txt", RmOpts{}); err != nil {
				t.Fatalf("Rm: %v", err)
			}
			if _, err := r.Commit(CommitOpts{Message: "delete a"}); err != nil {
				t.Fatalf("Commit: %v", err)
			}
		},
		func(r *Repo) { commitFile(t, r, "a.txt", "feat\n", "on feat") },
	)

	out, err := r.Merge("master")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "Automatic merge failed. Fix conflicts and commit the result." {
		t.Errorf("output = %q", out)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if !idx.IsFileInConflict("a.txt") {
		t.Error("delete/modify did not conflict")
	}
	if idx.HasFile("a.txt", StageTheirs) {
		t.Error("deleted side got a stage entry")
	}
	content := fileContent(t, r, "a.txt")
	if !strings.Contains(content, "feat\n") || !strings.Contains(content, "<<<<<<") {
		t.Errorf("conflict file = %q", content)
	}
}

func TestMerge_DetachedHeadUnsupported(t *testing.T) {
	r := newTestRepo(t)
	h1 := commitFile(t, r, "a.txt", "1\n", "c1")
	commitFile(t, r, "a.txt", "2\n", "c2")

	if _, err := r.Checkout(string(h1)); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if _, err := r.Merge("master"); KindOf(err) != ErrUnsupported {
		t.Errorf("kind = %v, err = %v", KindOf(err), err)
	}
}

func TestMerge_UnknownGiver(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "1\n", "c1")

	if _, err := r.Merge("nope"); KindOf(err) != ErrWrongObjectType {
		t.Errorf("kind = %v, err = %v", KindOf(err), err)
	}
}
