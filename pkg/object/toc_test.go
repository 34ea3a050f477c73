package object

import (
	"reflect"
	"testing"
)

func writeTOCBlobs(t *testing.T, s *Store, contents map[string]string) TOC {
	t.Helper()
	toc := make(TOC)
	for p, content := range contents {
		h, err := s.WriteBlob(&Blob{Data: []byte(content)})
		if err != nil {
			t.Fatalf("WriteBlob(%s): %v", p, err)
		}
		toc[p] = h
	}
	return toc
}

// Equal flat TOCs produce equal root tree hashes.
func TestWriteTOC_Deterministic(t *testing.T) {
	s := newTestStore(t)
	toc := writeTOCBlobs(t, s, map[string]string{
		"a.txt":         "1\n",
		"dir/b.txt":     "2\n",
		"dir/sub/c.txt": "3\n",
	})

	h1, err := s.WriteTOC(toc)
	if err != nil {
		t.Fatalf("WriteTOC: %v", err)
	}
	h2, err := s.WriteTOC(toc.Copy())
	if err != nil {
		t.Fatalf("WriteTOC copy: %v", err)
	}
	if h1 != h2 {
		t.Errorf("equal TOCs hashed differently: %s vs %s", h1, h2)
	}
}

// commit_toc(write_commit(write_tree(nest(toc)))) == toc.
func TestCommitTOC_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	toc := writeTOCBlobs(t, s, map[string]string{
		"a.txt":     "1\n",
		"dir/b.txt": "2\n",
	})

	treeHash, err := s.WriteTOC(toc)
	if err != nil {
		t.Fatalf("WriteTOC: %v", err)
	}
	commitHash, err := s.NewCommit(treeHash, "c1", nil)
	if err != nil {
		t.Fatalf("NewCommit: %v", err)
	}

	got, err := s.CommitTOC(commitHash)
	if err != nil {
		t.Fatalf("CommitTOC: %v", err)
	}
	if !reflect.DeepEqual(got, toc) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", got, toc)
	}
}

func TestWriteTOC_EmptyTree(t *testing.T) {
	s := newTestStore(t)

	h, err := s.WriteTOC(TOC{})
	if err != nil {
		t.Fatalf("WriteTOC: %v", err)
	}
	toc, err := s.TreeTOC(h)
	if err != nil {
		t.Fatalf("TreeTOC: %v", err)
	}
	if len(toc) != 0 {
		t.Errorf("empty tree flattened to %v", toc)
	}
}
