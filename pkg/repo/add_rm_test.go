package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAdd_StagesMatchingFiles(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "dir/a.txt", "1\n")
	writeFile(t, r, "dir/sub/b.txt", "2\n")
	writeFile(t, r, "c.txt", "3\n")

	if err := r.Add("dir"); err != nil {
		t.Fatalf("Add(dir): %v", err)
	}
	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if !idx.HasFile("dir/a.txt", StageNormal) || !idx.HasFile("dir/sub/b.txt", StageNormal) {
		t.Error("directory add missed files")
	}
	if idx.HasFile("c.txt", StageNormal) {
		t.Error("add staged a file outside the path")
	}
}

func TestAdd_NoMatch(t *testing.T) {
	r := newTestRepo(t)
	if err := r.Add("missing.txt"); KindOf(err) != ErrNoMatch {
		t.Errorf("kind = %v, err = %v", KindOf(err), err)
	}
}

func TestRm_RemovesFromDiskAndIndex(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "1\n", "c1")

	if err := r.Rm("a.txt", RmOpts{}); err != nil {
		t.Fatalf("Rm: %v", err)
	}
	if fileExists(r, "a.txt") {
		t.Error("a.txt still on disk")
	}
	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if idx.HasFile("a.txt", StageNormal) {
		t.Error("a.txt still in index")
	}
}

func TestRm_Errors(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "dir/a.txt", "1\n")
	if err := r.Add("dir/a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Rm("a.txt", RmOpts{Force: true}); KindOf(err) != ErrUnsupported {
		t.Errorf("force: kind = %v, err = %v", KindOf(err), err)
	}
	if err := r.Rm("missing", RmOpts{}); KindOf(err) != ErrNoMatch {
		t.Errorf("no match: kind = %v, err = %v", KindOf(err), err)
	}
	if err := r.Rm("dir", RmOpts{}); KindOf(err) != ErrPathIsDirectory {
		t.Errorf("dir without -r: kind = %v, err = %v", KindOf(err), err)
	}
	if err := r.Rm("dir", RmOpts{Recursive: true}); err != nil {
		t.Errorf("dir with -r: %v", err)
	}
}

func TestRm_RefusesChangedFile(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "1\n", "c1")
	writeFile(t, r, "a.txt", "edited\n")

	if err := r.Rm("a.txt", RmOpts{}); KindOf(err) != ErrChangedFiles {
		t.Errorf("kind = %v, err = %v", KindOf(err), err)
	}
}

// update_index case table.
func TestUpdateIndex_Cases(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "1\n")

	// On disk, not in index, without --add.
	if err := r.UpdateIndex("a.txt", UpdateIndexOpts{}); KindOf(err) != ErrNoMatch {
		t.Errorf("missing --add: kind = %v, err = %v", KindOf(err), err)
	}

	// On disk with --add stages the file.
	if err := r.UpdateIndex("a.txt", UpdateIndexOpts{Add: true}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// On disk and in index restages without flags.
	writeFile(t, r, "a.txt", "2\n")
	if err := r.UpdateIndex("a.txt", UpdateIndexOpts{}); err != nil {
		t.Fatalf("restage: %v", err)
	}

	// Directory argument is refused.
	writeFile(t, r, "dir/b.txt", "x\n")
	if err := r.UpdateIndex("dir", UpdateIndexOpts{Add: true}); KindOf(err) != ErrPathIsDirectory {
		t.Errorf("directory: kind = %v, err = %v", KindOf(err), err)
	}

	// Not on disk without --remove.
	if err := r.UpdateIndex("gone.txt", UpdateIndexOpts{Add: true}); KindOf(err) != ErrNoMatch {
		t.Errorf("not on disk: kind = %v, err = %v", KindOf(err), err)
	}

	// Not on disk, not in index, with --remove is a quiet no-op.
	if err := r.UpdateIndex("gone.txt", UpdateIndexOpts{Remove: true}); err != nil {
		t.Errorf("remove absent: %v", err)
	}
}

func TestUpdateIndex_RemoveConflictedUnsupported(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "1\n", "c1")

	idx, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	blobHash := idx.TOC()["a.txt"]
	idx.WriteConflict("a.txt", blobHash, blobHash, blobHash)
	if err := r.WriteIndex(idx); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	// The file must be gone from disk to hit the remove case.
	if err := os.Remove(filepath.Join(r.RootDir, "a.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := r.UpdateIndex("a.txt", UpdateIndexOpts{Remove: true}); KindOf(err) != ErrUnsupported {
		t.Errorf("kind = %v, err = %v", KindOf(err), err)
	}
}
