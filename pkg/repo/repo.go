package repo

import (
	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// Repo represents an opened repository. It exclusively owns the object
// store, refs, index, and config rooted under VersionDir.
type Repo struct {
	RootDir    string // working copy root (equals VersionDir when bare)
	VersionDir string // .version/ directory, or the root itself when bare
	Store      *object.Store

	log *zap.Logger
}

// SetLogger installs a structured logger. A nil logger resets to no-op.
func (r *Repo) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.log = l
}

// Logger returns the repository's logger, never nil.
func (r *Repo) Logger() *zap.Logger {
	if r.log == nil {
		return zap.NewNop()
	}
	return r.log
}

// IsBare reports whether the repository has no working copy.
func (r *Repo) IsBare() bool {
	cfg, err := r.ReadConfig()
	if err != nil {
		return false
	}
	return cfg.Bare
}

// assertNotBare guards operations that require a work tree.
func (r *Repo) assertNotBare() error {
	if r.IsBare() {
		return errBareDisallowed()
	}
	return nil
}
