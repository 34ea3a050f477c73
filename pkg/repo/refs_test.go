package repo

import (
	"testing"
)

// IsRef is total and deterministic over all strings.
func TestIsRef(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"HEAD", true},
		{"FETCH_HEAD", true},
		{"MERGE_HEAD", true},
		{"MERGE_MSG", true},
		{"refs/heads/master", true},
		{"refs/heads/a-b", true},
		{"refs/remotes/origin/master", true},
		{"", false},
		{"master", false},
		{"refs/heads/", false},
		{"refs/heads/with space", false},
		{"refs/heads/nested/branch", false},
		{"refs/heads/digits1", false},
		{"refs/tags/v-one", false},
		{"head", false},
	}
	for _, c := range cases {
		if got := IsRef(c.name); got != c.want {
			t.Errorf("IsRef(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTerminalRef(t *testing.T) {
	r := newTestRepo(t)

	if got := r.TerminalRef("HEAD"); got != "refs/heads/master" {
		t.Errorf("TerminalRef(HEAD) = %q, want refs/heads/master", got)
	}
	if got := r.TerminalRef("refs/heads/feat"); got != "refs/heads/feat" {
		t.Errorf("TerminalRef(qualified) = %q", got)
	}
	if got := r.TerminalRef("feat"); got != "refs/heads/feat" {
		t.Errorf("TerminalRef(unqualified) = %q", got)
	}
}

// Writing a syntactically invalid ref name is a silent no-op.
func TestWriteRef_InvalidNameIgnored(t *testing.T) {
	r := newTestRepo(t)

	if err := r.WriteRef("refs/heads/no good", "abc"); err != nil {
		t.Fatalf("WriteRef: %v", err)
	}
	if r.RefExists("refs/heads/no good") {
		t.Error("invalid ref was recorded")
	}
}

func TestRefHash_ResolvesHashAndBranch(t *testing.T) {
	r := newTestRepo(t)
	head := commitFile(t, r, "a.txt", "1\n", "c1")

	if h, ok := r.RefHash(string(head)); !ok || h != head {
		t.Errorf("RefHash(raw hash) = %q, %v", h, ok)
	}
	if h, ok := r.RefHash("master"); !ok || h != head {
		t.Errorf("RefHash(master) = %q, %v", h, ok)
	}
	if h, ok := r.RefHash("HEAD"); !ok || h != head {
		t.Errorf("RefHash(HEAD) = %q, %v", h, ok)
	}
	if _, ok := r.RefHash("missing"); ok {
		t.Error("RefHash resolved an unknown branch")
	}
}

func TestHeadBranchName_DetachedHead(t *testing.T) {
	r := newTestRepo(t)
	head := commitFile(t, r, "a.txt", "1\n", "c1")

	if name, ok := r.HeadBranchName(); !ok || name != "master" {
		t.Errorf("HeadBranchName = %q, %v", name, ok)
	}
	if r.IsHeadDetached() {
		t.Error("fresh repo reported detached HEAD")
	}

	if _, err := r.Checkout(string(head)); err != nil {
		t.Fatalf("Checkout(hash): %v", err)
	}
	if !r.IsHeadDetached() {
		t.Error("checkout of raw hash did not detach HEAD")
	}
	if _, ok := r.HeadBranchName(); ok {
		t.Error("detached HEAD still reported a branch name")
	}
	if h, ok := r.RefHash("HEAD"); !ok || h != head {
		t.Errorf("detached HEAD resolved to %q, %v", h, ok)
	}
}

// FETCH_HEAD resolves through the record matching the current branch name.
func TestRefHash_FetchHead(t *testing.T) {
	r := newTestRepo(t)
	head := commitFile(t, r, "a.txt", "1\n", "c1")

	if err := r.RecordFetchHead(head, "master", "../src"); err != nil {
		t.Fatalf("RecordFetchHead: %v", err)
	}
	if h, ok := r.RefHash("FETCH_HEAD"); !ok || h != head {
		t.Errorf("RefHash(FETCH_HEAD) = %q, %v", h, ok)
	}

	// A record for another branch does not resolve from master.
	r2 := newTestRepo(t)
	head2 := commitFile(t, r2, "a.txt", "1\n", "c1")
	if err := r2.RecordFetchHead(head2, "feat", "../src"); err != nil {
		t.Fatalf("RecordFetchHead: %v", err)
	}
	if _, ok := r2.RefHash("FETCH_HEAD"); ok {
		t.Error("FETCH_HEAD resolved via a non-current branch record")
	}
}

func TestRecordFetchHead_ReplacesBranchRecord(t *testing.T) {
	r := newTestRepo(t)
	h1 := commitFile(t, r, "a.txt", "1\n", "c1")
	h2 := commitFile(t, r, "a.txt", "2\n", "c2")

	if err := r.RecordFetchHead(h1, "master", "../src"); err != nil {
		t.Fatalf("RecordFetchHead: %v", err)
	}
	if err := r.RecordFetchHead(h2, "feat", "../src"); err != nil {
		t.Fatalf("RecordFetchHead feat: %v", err)
	}
	if err := r.RecordFetchHead(h2, "master", "../src"); err != nil {
		t.Fatalf("RecordFetchHead replace: %v", err)
	}

	if h, ok := r.RefHash("FETCH_HEAD"); !ok || h != h2 {
		t.Errorf("FETCH_HEAD = %q, %v; want %s", h, ok, h2)
	}
	content, _ := r.ReadRef("FETCH_HEAD")
	if want := string(h2) + " branch feat of ../src"; !containsLine(content, want) {
		t.Errorf("feat record lost: %q", content)
	}
}

func containsLine(content, want string) bool {
	for _, line := range splitLines(content) {
		if line == want {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}

func TestUpdateRef_Errors(t *testing.T) {
	r := newTestRepo(t)
	head := commitFile(t, r, "a.txt", "1\n", "c1")

	if err := r.UpdateRef("refs/heads/feat", "nonsense"); KindOf(err) != ErrUnknownRevision {
		t.Errorf("unknown target: kind = %v, err = %v", KindOf(err), err)
	}
	if err := r.UpdateRef("not a ref", string(head)); KindOf(err) != ErrInvalidRef {
		t.Errorf("invalid ref: kind = %v, err = %v", KindOf(err), err)
	}

	// A blob target is a wrong object type.
	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	blobHash := idx.TOC()["a.txt"]
	if err := r.UpdateRef("refs/heads/feat", string(blobHash)); KindOf(err) != ErrWrongObjectType {
		t.Errorf("blob target: kind = %v, err = %v", KindOf(err), err)
	}
}

func TestCommitParentHashes(t *testing.T) {
	r := newTestRepo(t)
	if parents := r.CommitParentHashes(); len(parents) != 0 {
		t.Errorf("no commits yet: parents = %v", parents)
	}

	h1 := commitFile(t, r, "a.txt", "1\n", "c1")
	parents := r.CommitParentHashes()
	if len(parents) != 1 || parents[0] != h1 {
		t.Errorf("parents = %v, want [%s]", parents, h1)
	}

	h2 := commitFile(t, r, "a.txt", "2\n", "c2")
	if err := r.WriteRef("MERGE_HEAD", string(h1)); err != nil {
		t.Fatalf("WriteRef: %v", err)
	}
	parents = r.CommitParentHashes()
	if len(parents) != 2 || parents[0] != h2 || parents[1] != h1 {
		t.Errorf("merge parents = %v, want [%s %s]", parents, h2, h1)
	}
}
