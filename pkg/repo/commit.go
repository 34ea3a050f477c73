package repo

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// CommitOpts carries the commit message; during a merge the message comes
// from MERGE_MSG instead.
type CommitOpts struct {
	Message string
}

// Commit writes the index as a tree and records a commit pointing at it.
// Completing a merge produces a two-parent commit and clears the merge
// state.
func (r *Repo) Commit(opts CommitOpts) (string, error) {
	if err := r.assertNotBare(); err != nil {
		return "", err
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return "", err
	}
	treeHash, err := r.Store.WriteTOC(idx.TOC())
	if err != nil {
		return "", err
	}

	headDesc := r.headDescription()
	headHash, headOK := r.RefHash("HEAD")
	if headOK {
		headCommit, err := r.Store.ReadCommit(headHash)
		if err != nil {
			return "", errCorruption(err)
		}
		if headCommit.TreeHash == treeHash {
			return "", errNothingToCommit(headDesc)
		}
	}

	merging := r.IsMergeInProgress()
	if merging {
		if conflicted := idx.ConflictedPaths(); len(conflicted) > 0 {
			return "", errUnresolvedConflicts(conflicted)
		}
	}

	message := opts.Message
	if merging {
		msg, ok := r.ReadRef("MERGE_MSG")
		if !ok {
			msg = "Merge"
		}
		message = msg
	}

	commitHash, err := r.Store.NewCommit(treeHash, message, r.CommitParentHashes())
	if err != nil {
		return "", err
	}
	if err := r.UpdateRef("HEAD", string(commitHash)); err != nil {
		return "", err
	}
	r.Logger().Debug("wrote commit",
		zap.String("hash", string(commitHash)),
		zap.String("branch", headDesc))

	if merging {
		os.Remove(filepath.Join(r.VersionDir, "MERGE_MSG"))
		if err := r.RemoveRef("MERGE_HEAD"); err != nil {
			return "", err
		}
		return "Merge made by the three-way strategy", nil
	}
	return "[" + headDesc + " " + string(commitHash) + "] " + message, nil
}

// LogEntry is one commit in a history listing.
type LogEntry struct {
	Hash    object.Hash
	Message string
}

// Log walks first-parent history from HEAD, newest first, up to limit
// entries (limit <= 0 means unbounded).
func (r *Repo) Log(limit int) ([]LogEntry, error) {
	current, ok := r.RefHash("HEAD")
	if !ok {
		return nil, nil
	}

	var entries []LogEntry
	for current != "" {
		if limit > 0 && len(entries) >= limit {
			break
		}
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{Hash: current, Message: c.Message})
		if len(c.Parents) == 0 {
			break
		}
		current = c.Parents[0]
	}
	return entries, nil
}
