package repo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKind is the closed enumeration of failure classes the engine can
// surface. Every *Error, and so every kind's message, is built by the
// constructors in this file.
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrNotInRepo
	ErrBareDisallowed
	ErrNoMatch
	ErrUnsupported
	ErrPathIsDirectory
	ErrDirtyWorkingCopy
	ErrChangedFiles
	ErrUnresolvedConflicts
	ErrNothingToCommit
	ErrUnknownRevision
	ErrWrongObjectType
	ErrInvalidRef
	ErrRemoteMissing
	ErrRemoteRefMissing
	ErrNonFastForward
	ErrCheckedOutBranch
	ErrAlreadyExists
	ErrCorruption
)

// Error carries one ErrKind together with its rendered message. The stable
// human strings live in the constructors below, not in the kind itself.
type Error struct {
	Kind ErrKind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// KindOf extracts the ErrKind from an error chain, or ErrNone.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrNone
}

// ---------------------------------------------------------------------------
// Formatter: one constructor per surfaced failure.
// ---------------------------------------------------------------------------

func NotInRepoError() *Error {
	return &Error{ErrNotInRepo, "not a version repository"}
}

func errBareDisallowed() *Error {
	return &Error{ErrBareDisallowed, "this operation must be run in a work tree"}
}

func errNoMatch(path string) *Error {
	return &Error{ErrNoMatch, fmt.Sprintf("fatal: pathspec %s did not match any files", path)}
}

func UnsupportedError() *Error {
	return &Error{ErrUnsupported, "unsupported"}
}

func errIsDirectory(path string) *Error {
	return &Error{ErrPathIsDirectory, fmt.Sprintf("%s is a directory - add files inside", path)}
}

func errNotRemovingRecursively(path string) *Error {
	return &Error{ErrPathIsDirectory, fmt.Sprintf("not removing %s recursively without -r", path)}
}

func errDirtyWorkingCopy(paths []string) *Error {
	return &Error{ErrDirtyWorkingCopy, "local changes would be lost\n" + strings.Join(paths, "\n")}
}

func errChangedFiles(paths []string) *Error {
	return &Error{ErrChangedFiles, "error: the following files have changes:\n" + strings.Join(paths, "\n")}
}

func errUnresolvedConflicts(paths []string) *Error {
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = "U " + p
	}
	return &Error{ErrUnresolvedConflicts, strings.Join(lines, "\n") + "\ncannot commit because you have unmerged files"}
}

func errNothingToCommit(headDesc string) *Error {
	return &Error{ErrNothingToCommit, "# On " + headDesc + "\nnothing to commit, working directory clean"}
}

func errUnknownRevision(ref string) *Error {
	return &Error{ErrUnknownRevision, fmt.Sprintf("ambiguous argument %s: unknown revision", ref)}
}

func errUnknownTarget(ref string) *Error {
	return &Error{ErrUnknownRevision, fmt.Sprintf("%s did not match any file(s) known to version", ref)}
}

func errNotValidObjectName(name string) *Error {
	return &Error{ErrUnknownRevision, fmt.Sprintf("%s not a valid object name", name)}
}

func errNotATree(ref string) *Error {
	return &Error{ErrWrongObjectType, fmt.Sprintf("reference is not a tree: %s", ref)}
}

func errExpectedCommit(ref string) *Error {
	return &Error{ErrWrongObjectType, fmt.Sprintf("%s: expected commit type", ref)}
}

func errRefToNonCommit(ref, hash string) *Error {
	return &Error{ErrWrongObjectType, fmt.Sprintf("%s cannot refer to non-commit object %s", ref, hash)}
}

func errCannotLockRef(ref string) *Error {
	return &Error{ErrInvalidRef, fmt.Sprintf("cannot lock the ref %s", ref)}
}

func RemoteMissingError(remote string) *Error {
	return &Error{ErrRemoteMissing, fmt.Sprintf("%s does not appear to be a version repository", remote)}
}

func RemoteRefMissingError(branch string) *Error {
	return &Error{ErrRemoteRefMissing, fmt.Sprintf("couldn't find remote ref %s", branch)}
}

func NonFastForwardError(url string) *Error {
	return &Error{ErrNonFastForward, fmt.Sprintf("failed to push some refs to %s", url)}
}

func CheckedOutBranchError(branch string) *Error {
	return &Error{ErrCheckedOutBranch, fmt.Sprintf("refusing to update checked out branch %s", branch)}
}

func errBranchAlreadyExists(name string) *Error {
	return &Error{ErrAlreadyExists, fmt.Sprintf("A branch named %s already exists", name)}
}

func errRemoteAlreadyExists(name string) *Error {
	return &Error{ErrAlreadyExists, fmt.Sprintf("remote %s already exists", name)}
}

func TargetNotEmptyError(path string) *Error {
	return &Error{ErrAlreadyExists, fmt.Sprintf("%s already exists and is not empty", path)}
}

func RepoMissingError(path string) *Error {
	return &Error{ErrRemoteMissing, fmt.Sprintf("repository %s does not exist", path)}
}

func errCannotAddToIndex(path string) *Error {
	return &Error{ErrNoMatch, fmt.Sprintf("cannot add %s to index - use --add option", path)}
}

func errNotOnDisk(path string) *Error {
	return &Error{ErrNoMatch, fmt.Sprintf("%s does not exist and --remove not passed", path)}
}

func errCorruption(err error) *Error {
	return &Error{ErrCorruption, err.Error()}
}
