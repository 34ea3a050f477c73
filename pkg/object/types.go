package object

// Hash is a 64-character hex-encoded SHA-256 digest.
type Hash string

// Type identifies the kind of object stored.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
)

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir  = "40000"
	TreeModeFile = "100644"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Name is a single path segment;
// exactly one of BlobHash / SubtreeHash is set depending on IsDir.
type TreeEntry struct {
	Name        string
	IsDir       bool
	BlobHash    Hash
	SubtreeHash Hash
}

// TreeObj holds a list of tree entries, sorted by Name in canonical form.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj points at a tree and zero, one, or two parent commits. Two
// parents mark a merge commit; the first parent is the receiver.
type CommitObj struct {
	TreeHash Hash
	Parents  []Hash
	Message  string
}

// TOC is a flattened tree of contents: repo-relative slash-separated file
// path to blob hash.
type TOC map[string]Hash

// Copy returns an independent copy of the TOC.
func (t TOC) Copy() TOC {
	out := make(TOC, len(t))
	for p, h := range t {
		out[p] = h
	}
	return out
}
