package remote

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
	"github.com/jonathanalvares9009/version/pkg/repo"
)

// openPeer resolves a configured remote name to a peer handle.
func openPeer(r *repo.Repo, remoteName string) (Peer, string, error) {
	url, err := r.RemoteURL(remoteName)
	if err != nil {
		return nil, "", repo.RemoteMissingError(remoteName)
	}
	peer, err := OpenLocalPeer(url)
	if err != nil {
		return nil, "", repo.RemoteMissingError(remoteName)
	}
	return peer, url, nil
}

// copyObjects transfers every object from src to the write function.
// Content addressing makes re-copies no-ops, so the transfer is idempotent.
func copyObjects(src func() ([]object.Hash, error), read func(object.Hash) ([]byte, error), write func(object.Hash, []byte) error) (int, error) {
	hashes, err := src()
	if err != nil {
		return 0, err
	}
	for _, h := range hashes {
		raw, err := read(h)
		if err != nil {
			return 0, err
		}
		if err := write(h, raw); err != nil {
			return 0, err
		}
	}
	return len(hashes), nil
}

// Fetch copies the peer's objects into the local store and updates the
// remote-tracking ref and FETCH_HEAD record for the branch.
func Fetch(r *repo.Repo, remoteName, branch string) (string, error) {
	if remoteName == "" || branch == "" {
		return "", repo.UnsupportedError()
	}
	peer, url, err := openPeer(r, remoteName)
	if err != nil {
		return "", err
	}

	newHash, ok := peer.RefHash(branch)
	if !ok {
		return "", repo.RemoteRefMissingError(branch)
	}
	oldHash, _ := r.RefHash(repo.ToRemoteRef(remoteName, branch))

	count, err := copyObjects(peer.AllHashes, peer.ReadRaw, r.Store.WriteRaw)
	if err != nil {
		return "", err
	}

	if err := r.UpdateRef(repo.ToRemoteRef(remoteName, branch), string(newHash)); err != nil {
		return "", err
	}
	if err := r.RecordFetchHead(newHash, branch, url); err != nil {
		return "", err
	}

	forced, err := r.IsAForceFetch(oldHash, newHash)
	if err != nil {
		return "", err
	}
	r.Logger().Info("fetched",
		zap.String("remote", remoteName),
		zap.String("branch", branch),
		zap.Int("objects", count),
		zap.Bool("forced", forced))

	tracking := branch + " -> " + remoteName + "/" + branch
	if forced {
		tracking += " (forced)"
	}
	return strings.Join([]string{
		"From " + url,
		fmt.Sprintf("Count %d", count),
		tracking,
	}, "\n") + "\n", nil
}

// Push copies local objects to the peer and advances the peer's branch ref,
// refusing non-fast-forward updates unless forced.
func Push(r *repo.Repo, remoteName, branch string, force bool) (string, error) {
	if remoteName == "" || branch == "" {
		return "", repo.UnsupportedError()
	}
	peer, url, err := openPeer(r, remoteName)
	if err != nil {
		return "", err
	}

	if peer.IsCheckedOut(branch) {
		return "", repo.CheckedOutBranchError(branch)
	}

	receiverHash, _ := peer.RefHash(branch)
	giverHash, _ := r.RefHash(branch)

	upToDate, err := r.IsUpToDate(receiverHash, giverHash)
	if err != nil {
		return "", err
	}
	if upToDate {
		return "Already up-to-date", nil
	}

	canFF, err := r.CanFastForward(receiverHash, giverHash)
	if err != nil {
		return "", err
	}
	if !canFF && !force {
		return "", repo.NonFastForwardError(url)
	}

	count, err := copyObjects(r.Store.AllHashes, r.Store.ReadRaw, peer.WriteRaw)
	if err != nil {
		return "", err
	}
	if err := peer.UpdateRef(repo.ToLocalRef(branch), string(giverHash)); err != nil {
		return "", err
	}
	if err := r.UpdateRef(repo.ToRemoteRef(remoteName, branch), string(giverHash)); err != nil {
		return "", err
	}

	r.Logger().Info("pushed",
		zap.String("remote", remoteName),
		zap.String("branch", branch),
		zap.Int("objects", count))

	return strings.Join([]string{
		"To " + url,
		fmt.Sprintf("Count %d", count),
		branch + " -> " + branch,
	}, "\n") + "\n", nil
}

// Pull fetches a branch and merges the fetched head into the current branch.
func Pull(r *repo.Repo, remoteName, branch string) (string, error) {
	if _, err := Fetch(r, remoteName, branch); err != nil {
		return "", err
	}
	return r.Merge("FETCH_HEAD")
}

// CloneOpts controls the layout of the new repository.
type CloneOpts struct {
	Bare bool
}

// Clone initializes targetPath, registers remotePath as origin, and brings
// the new master up to the remote's master via a fast-forward.
func Clone(remotePath, targetPath string, opts CloneOpts) (string, error) {
	if remotePath == "" || targetPath == "" {
		return "", fmt.Errorf("you must specify remote path and target path")
	}
	if !repo.IsInRepo(remotePath) {
		return "", repo.RepoMissingError(remotePath)
	}
	if entries, err := os.ReadDir(targetPath); err == nil && len(entries) > 0 {
		return "", repo.TargetNotEmptyError(targetPath)
	}

	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		return "", fmt.Errorf("clone: mkdir %q: %w", targetPath, err)
	}
	target, err := repo.Init(targetPath, repo.InitOpts(opts))
	if err != nil {
		return "", err
	}
	if err := target.RemoteAdd("add", "origin", remotePath); err != nil {
		return "", err
	}

	source, err := repo.Open(remotePath)
	if err != nil {
		return "", err
	}
	if remoteHead, ok := source.RefHash(repo.DefaultBranch); ok {
		if _, err := Fetch(target, "origin", repo.DefaultBranch); err != nil {
			return "", err
		}
		if err := target.WriteFastForwardMerge("", remoteHead); err != nil {
			return "", err
		}
	}
	return "Cloning into " + targetPath, nil
}
