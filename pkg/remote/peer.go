// Package remote moves objects and ref updates between repositories. Peers
// are addressed abstractly; a same-machine path peer is provided.
package remote

import (
	"github.com/jonathanalvares9009/version/pkg/object"
	"github.com/jonathanalvares9009/version/pkg/repo"
)

// Peer exposes the core operations sync needs to run against another
// repository: read-only ref and object queries, object writes, and ref
// updates. Any transport satisfying this interface works.
type Peer interface {
	// RefHash resolves a ref name or hash in the peer repository.
	RefHash(refOrHash string) (object.Hash, bool)
	// AllHashes enumerates every object the peer stores.
	AllHashes() ([]object.Hash, error)
	// ReadRaw returns a peer object's canonical bytes.
	ReadRaw(h object.Hash) ([]byte, error)
	// WriteRaw stores canonical bytes in the peer's store.
	WriteRaw(h object.Hash, raw []byte) error
	// IsCheckedOut reports whether branch is checked out in the peer.
	IsCheckedOut(branch string) bool
	// UpdateRef points a peer ref at the commit refOrHash resolves to.
	UpdateRef(refToUpdate, refOrHash string) error
}

// LocalPeer runs peer operations against a repository reachable by
// filesystem path, by opening a second repository handle.
type LocalPeer struct {
	repo *repo.Repo
}

// OpenLocalPeer opens the repository at path as a peer. Relative paths
// resolve against the process working directory, the same way a URL given
// on the command line would.
func OpenLocalPeer(path string) (*LocalPeer, error) {
	r, err := repo.Open(path)
	if err != nil {
		return nil, err
	}
	return &LocalPeer{repo: r}, nil
}

func (p *LocalPeer) RefHash(refOrHash string) (object.Hash, bool) {
	return p.repo.RefHash(refOrHash)
}

func (p *LocalPeer) AllHashes() ([]object.Hash, error) {
	return p.repo.Store.AllHashes()
}

func (p *LocalPeer) ReadRaw(h object.Hash) ([]byte, error) {
	return p.repo.Store.ReadRaw(h)
}

func (p *LocalPeer) WriteRaw(h object.Hash, raw []byte) error {
	return p.repo.Store.WriteRaw(h, raw)
}

func (p *LocalPeer) IsCheckedOut(branch string) bool {
	return p.repo.IsCheckedOut(branch)
}

func (p *LocalPeer) UpdateRef(refToUpdate, refOrHash string) error {
	return p.repo.UpdateRef(refToUpdate, refOrHash)
}
