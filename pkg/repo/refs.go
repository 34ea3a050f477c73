package repo

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
)

var (
	localRefPattern  = regexp.MustCompile(`^refs/heads/[A-Za-z-]+$`)
	remoteRefPattern = regexp.MustCompile(`^refs/remotes/[A-Za-z-]+/[A-Za-z-]+$`)
	headPattern      = regexp.MustCompile(`^ref: (refs/heads/[A-Za-z-]+)$`)
)

// IsRef reports whether name is syntactically a ref. Total and deterministic
// over all strings.
func IsRef(name string) bool {
	switch name {
	case "HEAD", "FETCH_HEAD", "MERGE_HEAD", "MERGE_MSG":
		return true
	}
	return localRefPattern.MatchString(name) || remoteRefPattern.MatchString(name)
}

// ToLocalRef qualifies a branch name as refs/heads/<name>.
func ToLocalRef(name string) string {
	return "refs/heads/" + name
}

// ToRemoteRef qualifies a remote-tracking branch as refs/remotes/<r>/<b>.
func ToRemoteRef(remote, branch string) string {
	return "refs/remotes/" + remote + "/" + branch
}

func (r *Repo) refPath(name string) string {
	return filepath.Join(r.VersionDir, filepath.FromSlash(name))
}

// ReadRef returns the raw content of a ref record, trimmed of the trailing
// newline. The second result reports presence.
func (r *Repo) ReadRef(name string) (string, bool) {
	data, err := os.ReadFile(r.refPath(name))
	if err != nil {
		return "", false
	}
	return strings.TrimRight(string(data), "\n"), true
}

// WriteRef records content under the named ref. A syntactically invalid
// name is silently ignored, matching the historical contract; tests pin
// this behavior.
func (r *Repo) WriteRef(name, content string) error {
	if !IsRef(name) {
		return nil
	}
	return atomicWriteFile(r.refPath(name), []byte(content+"\n"))
}

// RemoveRef deletes the named ref record if present.
func (r *Repo) RemoveRef(name string) error {
	if !IsRef(name) {
		return nil
	}
	if err := os.Remove(r.refPath(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RefExists reports whether a record is present for the named ref.
func (r *Repo) RefExists(name string) bool {
	if !IsRef(name) {
		return false
	}
	_, ok := r.ReadRef(name)
	return ok
}

// TerminalRef resolves symbolic layers to a storage-level ref name: attached
// HEAD yields its branch ref, qualified names pass through, and anything
// else is treated as an unqualified local branch.
func (r *Repo) TerminalRef(ref string) string {
	if ref == "HEAD" && !r.IsHeadDetached() {
		if content, ok := r.ReadRef("HEAD"); ok {
			if m := headPattern.FindStringSubmatch(content); m != nil {
				return m[1]
			}
		}
		return ref
	}
	if IsRef(ref) {
		return ref
	}
	return ToLocalRef(ref)
}

// RefHash resolves a ref name or raw hash to a commit hash. An existing
// object hash resolves to itself. FETCH_HEAD resolves via the record for the
// current branch name; fetching one branch while on another therefore
// resolves to nothing.
func (r *Repo) RefHash(refOrHash string) (object.Hash, bool) {
	if object.IsHash(refOrHash) && r.Store.Has(object.Hash(refOrHash)) {
		return object.Hash(refOrHash), true
	}

	terminal := r.TerminalRef(refOrHash)
	if terminal == "FETCH_HEAD" {
		branch, ok := r.HeadBranchName()
		if !ok {
			return "", false
		}
		return r.fetchHeadBranchHash(branch)
	}
	if content, ok := r.ReadRef(terminal); ok && content != "" {
		return object.Hash(content), true
	}
	return "", false
}

// HeadBranchName returns the branch HEAD is attached to, or false when
// detached.
func (r *Repo) HeadBranchName() (string, bool) {
	if r.IsHeadDetached() {
		return "", false
	}
	content, ok := r.ReadRef("HEAD")
	if !ok {
		return "", false
	}
	m := headPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.TrimPrefix(m[1], "refs/heads/"), true
}

// IsHeadDetached reports whether HEAD holds a raw hash instead of a
// symbolic branch reference.
func (r *Repo) IsHeadDetached() bool {
	content, ok := r.ReadRef("HEAD")
	if !ok {
		return false
	}
	return !strings.HasPrefix(content, "ref: ")
}

// headDescription names HEAD for reporting: the branch name, or
// "detached HEAD".
func (r *Repo) headDescription() string {
	if branch, ok := r.HeadBranchName(); ok {
		return branch
	}
	return "detached HEAD"
}

// IsCheckedOut reports whether branch is the currently checked-out branch
// of a non-bare repository. Bare repositories have nothing checked out.
func (r *Repo) IsCheckedOut(branch string) bool {
	if r.IsBare() {
		return false
	}
	current, ok := r.HeadBranchName()
	return ok && current == branch
}

// LocalHeads returns every local branch and its commit hash.
func (r *Repo) LocalHeads() (map[string]object.Hash, error) {
	headsDir := filepath.Join(r.VersionDir, "refs", "heads")
	entries, err := os.ReadDir(headsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]object.Hash{}, nil
		}
		return nil, err
	}

	heads := make(map[string]object.Hash)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if content, ok := r.ReadRef(ToLocalRef(e.Name())); ok {
			heads[e.Name()] = object.Hash(content)
		}
	}
	return heads, nil
}

// LocalBranchNames returns sorted local branch names.
func (r *Repo) LocalBranchNames() ([]string, error) {
	heads, err := r.LocalHeads()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(heads))
	for name := range heads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// IsMergeInProgress reports whether MERGE_HEAD resolves to a commit.
func (r *Repo) IsMergeInProgress() bool {
	_, ok := r.RefHash("MERGE_HEAD")
	return ok
}

// CommitParentHashes returns the parent list for the next commit: [HEAD,
// MERGE_HEAD] during a merge, empty before the first commit, [HEAD]
// otherwise.
func (r *Repo) CommitParentHashes() []object.Hash {
	head, headOK := r.RefHash("HEAD")
	if r.IsMergeInProgress() {
		mergeHead, _ := r.RefHash("MERGE_HEAD")
		return []object.Hash{head, mergeHead}
	}
	if !headOK {
		return nil
	}
	return []object.Hash{head}
}

// fetchHeadBranchHash scans the FETCH_HEAD records for the line recording
// the named branch: "<hash> branch <name> of <url>".
func (r *Repo) fetchHeadBranchHash(branch string) (object.Hash, bool) {
	content, ok := r.ReadRef("FETCH_HEAD")
	if !ok {
		return "", false
	}
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 4 && fields[1] == "branch" && fields[2] == branch {
			return object.Hash(fields[0]), true
		}
	}
	return "", false
}

// RecordFetchHead writes or replaces the FETCH_HEAD record for one branch,
// keeping records for other branches intact.
func (r *Repo) RecordFetchHead(hash object.Hash, branch, url string) error {
	record := string(hash) + " branch " + branch + " of " + url

	var lines []string
	if content, ok := r.ReadRef("FETCH_HEAD"); ok && content != "" {
		for _, line := range strings.Split(content, "\n") {
			fields := strings.Fields(line)
			if len(fields) >= 4 && fields[1] == "branch" && fields[2] == branch {
				continue
			}
			lines = append(lines, line)
		}
	}
	lines = append(lines, record)
	return r.WriteRef("FETCH_HEAD", strings.Join(lines, "\n"))
}

// UpdateRef points refToUpdate at the commit that refOrHash resolves to.
func (r *Repo) UpdateRef(refToUpdate, refOrHash string) error {
	hash, ok := r.RefHash(refOrHash)
	if !ok {
		return errNotValidObjectName(refOrHash)
	}
	if !IsRef(refToUpdate) {
		return errCannotLockRef(refToUpdate)
	}
	objType, err := r.Store.TypeOf(hash)
	if err != nil {
		return errCorruption(err)
	}
	if objType != object.TypeCommit {
		return errRefToNonCommit(r.TerminalRef(refToUpdate), string(hash))
	}
	terminal := r.TerminalRef(refToUpdate)
	r.Logger().Debug("update ref",
		zap.String("ref", terminal),
		zap.String("hash", string(hash)))
	return r.WriteRef(terminal, string(hash))
}
