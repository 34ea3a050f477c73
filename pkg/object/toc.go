package object

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// maxTreeDepth bounds tree recursion. Content addressing makes cycles
// impossible for well-formed stores, but hand-edited object files could
// otherwise recurse without limit.
const maxTreeDepth = 1024

// WriteTOC nests the flat table of contents into per-directory trees,
// writing each subtree to the store, and returns the root tree hash. Equal
// TOCs always produce the same root hash.
func (s *Store) WriteTOC(toc TOC) (Hash, error) {
	return s.writeTOCDir(toc, "")
}

// writeTOCDir builds the TreeObj for one directory prefix and writes it.
func (s *Store) writeTOCDir(toc TOC, prefix string) (Hash, error) {
	// Collect direct children: files and immediate subdirectory names.
	files := make(map[string]Hash)
	subdirs := make(map[string]struct{})

	for p, blobHash := range toc {
		var rel string
		if prefix == "" {
			rel = p
		} else {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rel = p[len(prefix)+1:]
		}

		slash := strings.IndexByte(rel, '/')
		if slash < 0 {
			files[rel] = blobHash
		} else {
			subdirs[rel[:slash]] = struct{}{}
		}
	}

	names := make([]string, 0, len(files)+len(subdirs))
	for name := range files {
		names = append(names, name)
	}
	for name := range subdirs {
		// A name cannot be both a file and a directory within one tree.
		if _, isFile := files[name]; !isFile {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var entries []TreeEntry
	for _, name := range names {
		if blobHash, isFile := files[name]; isFile {
			entries = append(entries, TreeEntry{Name: name, BlobHash: blobHash})
		} else {
			childPrefix := name
			if prefix != "" {
				childPrefix = prefix + "/" + name
			}
			subHash, err := s.writeTOCDir(toc, childPrefix)
			if err != nil {
				return "", fmt.Errorf("write toc %q: %w", childPrefix, err)
			}
			entries = append(entries, TreeEntry{Name: name, IsDir: true, SubtreeHash: subHash})
		}
	}

	h, err := s.WriteTree(&TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("write tree (prefix=%q): %w", prefix, err)
	}
	return h, nil
}

// TreeTOC walks a tree object recursively, returning the flat table of
// contents with forward-slash paths.
func (s *Store) TreeTOC(h Hash) (TOC, error) {
	toc := make(TOC)
	if err := s.treeTOCRec(h, "", 0, toc); err != nil {
		return nil, err
	}
	return toc, nil
}

func (s *Store) treeTOCRec(h Hash, prefix string, depth int, out TOC) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("tree %s: nesting exceeds %d levels", h, maxTreeDepth)
	}
	tr, err := s.ReadTree(h)
	if err != nil {
		return fmt.Errorf("flatten tree: %w", err)
	}

	for _, entry := range tr.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		if entry.IsDir {
			if err := s.treeTOCRec(entry.SubtreeHash, fullPath, depth+1, out); err != nil {
				return err
			}
		} else {
			out[fullPath] = entry.BlobHash
		}
	}
	return nil
}

// CommitTOC flattens the tree referenced by a commit.
func (s *Store) CommitTOC(commitHash Hash) (TOC, error) {
	c, err := s.ReadCommit(commitHash)
	if err != nil {
		return nil, err
	}
	return s.TreeTOC(c.TreeHash)
}

// NewCommit writes a commit object for the given tree, message, and parents,
// returning its hash.
func (s *Store) NewCommit(treeHash Hash, message string, parents []Hash) (Hash, error) {
	return s.WriteCommit(&CommitObj{TreeHash: treeHash, Parents: parents, Message: message})
}
