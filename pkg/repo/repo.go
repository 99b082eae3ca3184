// Package repo implements the repository core: the staging index, tree
// building, branch refs and history, and working-tree reconciliation.
package repo

import (
	"log/slog"
	"time"

	"github.com/odvcencio/twig/pkg/fsys"
	"github.com/odvcencio/twig/pkg/object"
)

// DirName is the repository directory inside the working tree.
const DirName = ".twig"

// Repo represents an opened twig repository. Every core operation runs
// against the explicit state held here; nothing is process-global.
type Repo struct {
	RootDir string        // host path of the working tree; empty for non-OS filesystems
	Work    fsys.FS       // working tree root
	Dir     fsys.FS       // repository directory (.twig/)
	Store   *object.Store // content-addressed object store
	Config  *Config

	logger *slog.Logger
	now    func() time.Time
}

func newRepo(work fsys.FS, cfg *Config) *Repo {
	dir := fsys.Sub(work, DirName)
	r := &Repo{
		Work:   work,
		Dir:    dir,
		Store:  object.NewStore(dir),
		Config: cfg,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	if o, ok := work.(*fsys.OS); ok {
		r.RootDir = o.Root()
	}
	return r
}

// SetLogger routes debug logging of the repository and its object store to
// l. A nil logger discards output.
func (r *Repo) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	r.logger = l
	r.Store.SetLogger(l)
}

// SetClock overrides the time source used for commit and reflog
// timestamps.
func (r *Repo) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.now = now
}
