package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// Stage identifies an index slot for a path: 0 for a normally staged file,
// 1/2/3 for the base/ours/theirs sides of an unresolved conflict.
type Stage int

const (
	StageNormal Stage = iota
	StageBase
	StageOurs
	StageTheirs
)

type indexKey struct {
	Path  string
	Stage Stage
}

// Index is the staged table mapping (path, stage) to blob hash. The invariant
// held across every mutation: no path carries stage 0 together with any of
// stages 1..3.
type Index struct {
	entries map[indexKey]object.Hash
}

// indexRecord is the persisted form of one index entry.
type indexRecord struct {
	Path  string      `json:"path"`
	Stage Stage       `json:"stage"`
	Hash  object.Hash `json:"hash"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[indexKey]object.Hash)}
}

// NewIndexFromTOC builds an index holding the given stage-0 table, replacing
// any previous content semantics (toc_to_index).
func NewIndexFromTOC(toc object.TOC) *Index {
	idx := NewIndex()
	for p, h := range toc {
		idx.entries[indexKey{Path: p, Stage: StageNormal}] = h
	}
	return idx
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.VersionDir, "index")
}

// ReadIndex loads the index. A missing file yields an empty index.
func (r *Repo) ReadIndex() (*Index, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var records []indexRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("read index: unmarshal: %w", err)
	}
	idx := NewIndex()
	for _, rec := range records {
		idx.entries[indexKey{Path: rec.Path, Stage: rec.Stage}] = rec.Hash
	}
	return idx, nil
}

// WriteIndex atomically persists the index, entries sorted by path then
// stage for stable bytes.
func (r *Repo) WriteIndex(idx *Index) error {
	records := make([]indexRecord, 0, len(idx.entries))
	for key, h := range idx.entries {
		records = append(records, indexRecord{Path: key.Path, Stage: key.Stage, Hash: h})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Path != records[j].Path {
			return records[i].Path < records[j].Path
		}
		return records[i].Stage < records[j].Stage
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("write index: marshal: %w", err)
	}
	return atomicWriteFile(r.indexPath(), data)
}

// TOC projects the stage-0 entries as a flat tree of contents.
func (idx *Index) TOC() object.TOC {
	toc := make(object.TOC)
	for key, h := range idx.entries {
		if key.Stage == StageNormal {
			toc[key.Path] = h
		}
	}
	return toc
}

// HasFile reports whether (path, stage) is present.
func (idx *Index) HasFile(path string, stage Stage) bool {
	_, ok := idx.entries[indexKey{Path: path, Stage: stage}]
	return ok
}

// IsFileInConflict reports whether path carries any conflict stage.
func (idx *Index) IsFileInConflict(path string) bool {
	for _, stage := range []Stage{StageBase, StageOurs, StageTheirs} {
		if idx.HasFile(path, stage) {
			return true
		}
	}
	return false
}

// ConflictedPaths returns the sorted list of paths with unresolved conflicts.
func (idx *Index) ConflictedPaths() []string {
	seen := make(map[string]struct{})
	for key := range idx.entries {
		if key.Stage != StageNormal {
			seen[key.Path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Paths returns every path present in the index at any stage, sorted.
func (idx *Index) Paths() []string {
	seen := make(map[string]struct{})
	for key := range idx.entries {
		seen[key.Path] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MatchingFiles returns all index paths at or under pathSpec, which may name
// a file or a directory prefix. An empty spec (or ".") matches everything.
func (idx *Index) MatchingFiles(pathSpec string) []string {
	var matched []string
	for _, p := range idx.Paths() {
		if pathSpec == "" || pathSpec == "." || p == pathSpec || strings.HasPrefix(p, pathSpec+"/") {
			matched = append(matched, p)
		}
	}
	return matched
}

// WriteNonConflict stores content as a blob and stages it at stage 0,
// clearing any conflict stages for the path.
func (idx *Index) WriteNonConflict(store *object.Store, path string, content []byte) error {
	blobHash, err := store.WriteBlob(&object.Blob{Data: content})
	if err != nil {
		return fmt.Errorf("stage %q: %w", path, err)
	}
	idx.WriteRm(path)
	idx.entries[indexKey{Path: path, Stage: StageNormal}] = blobHash
	return nil
}

// WriteConflict records the base/ours/theirs sides of an unresolved conflict,
// clearing stage 0. A side absent from the merge (e.g. delete vs modify) is
// passed as the empty hash and gets no stage entry.
func (idx *Index) WriteConflict(path string, base, ours, theirs object.Hash) {
	idx.WriteRm(path)
	if base != "" {
		idx.entries[indexKey{Path: path, Stage: StageBase}] = base
	}
	if ours != "" {
		idx.entries[indexKey{Path: path, Stage: StageOurs}] = ours
	}
	if theirs != "" {
		idx.entries[indexKey{Path: path, Stage: StageTheirs}] = theirs
	}
}

// WriteRm removes every stage for the path.
func (idx *Index) WriteRm(path string) {
	for stage := StageNormal; stage <= StageTheirs; stage++ {
		delete(idx.entries, indexKey{Path: path, Stage: stage})
	}
}
