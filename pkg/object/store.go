package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNotExist reports that no object with the requested hash is stored.
// Absence is a normal outcome; callers test for it with errors.Is.
var ErrNotExist = errors.New("object does not exist")

// ErrCorrupt reports that stored bytes could not be decoded as any known
// object kind. Corruption is fatal: callers should halt rather than recover.
var ErrCorrupt = errors.New("corrupt object")

const decodedCacheSize = 512

// Store is a content-addressed object store. Each object lives in a single
// file objects/<hash> holding its canonical "type len\0content" bytes.
//
// Decoded trees and commits are kept in a small LRU: graph walks and TOC
// flattening hit the same objects repeatedly. Cached values are shared and
// must not be mutated by callers.
type Store struct {
	root    string
	trees   *lru.Cache[Hash, *TreeObj]
	commits *lru.Cache[Hash, *CommitObj]
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	trees, _ := lru.New[Hash, *TreeObj](decodedCacheSize)
	commits, _ := lru.New[Hash, *CommitObj](decodedCacheSize)
	return &Store{root: root, trees: trees, commits: commits}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if h == "" {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Re-writing an object
// that already exists is a no-op returning the same hash. Writes are atomic:
// data goes to a temp file which is then renamed into place.
func (s *Store) Write(objType Type, data []byte) (Hash, error) {
	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := append([]byte(envelope), data...)

	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	dir := filepath.Join(s.root, "objects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	return h, nil
}

// WriteRaw stores pre-encoded canonical bytes (envelope included), verifying
// that they hash to the claimed value. Used when copying objects between
// stores.
func (s *Store) WriteRaw(h Hash, raw []byte) error {
	objType, content, err := decodeEnvelope(h, raw)
	if err != nil {
		return err
	}
	got, err := s.Write(objType, content)
	if err != nil {
		return err
	}
	if got != h {
		return fmt.Errorf("%w: %s hashed to %s", ErrCorrupt, h, got)
	}
	return nil
}

// Read retrieves an object by hash, returning its type and raw content.
// A missing object reports ErrNotExist; undecodable bytes report ErrCorrupt.
func (s *Store) Read(h Hash) (Type, []byte, error) {
	raw, err := s.ReadRaw(h)
	if err != nil {
		return "", nil, err
	}
	return decodeEnvelope(h, raw)
}

// ReadRaw returns the canonical on-disk bytes of an object, envelope included.
func (s *Store) ReadRaw(h Hash) ([]byte, error) {
	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", h, ErrNotExist)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return raw, nil
}

func decodeEnvelope(h Hash, raw []byte) (Type, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: %s: no NUL separator", ErrCorrupt, h)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("%w: %s: invalid header %q", ErrCorrupt, h, header)
	}
	objType := Type(parts[0])
	switch objType {
	case TypeBlob, TypeTree, TypeCommit:
	default:
		return "", nil, fmt.Errorf("%w: %s: unknown type %q", ErrCorrupt, h, parts[0])
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: invalid length %q", ErrCorrupt, h, parts[1])
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("%w: %s: length mismatch (header=%d, actual=%d)", ErrCorrupt, h, length, len(content))
	}

	return objType, content, nil
}

// TypeOf returns the kind of the stored object.
func (s *Store) TypeOf(h Hash) (Type, error) {
	objType, _, err := s.Read(h)
	return objType, err
}

// AllHashes enumerates every stored object hash, sorted for determinism.
func (s *Store) AllHashes() ([]Hash, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "objects"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("all hashes: %w", err)
	}

	var hashes []Hash
	for _, e := range entries {
		if e.IsDir() || !IsHash(e.Name()) {
			continue
		}
		hashes = append(hashes, Hash(e.Name()))
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	return hashes, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, objType, TypeBlob)
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(tr))
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	if tr, ok := s.trees.Get(h); ok {
		return tr, nil
	}
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, objType, TypeTree)
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, err
	}
	s.trees.Add(h, tr)
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	if c, ok := s.commits.Get(h); ok {
		return c, nil
	}
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, objType, TypeCommit)
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, err
	}
	s.commits.Add(h, c)
	return c, nil
}
