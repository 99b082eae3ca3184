package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/twig/pkg/fsys"
)

const (
	headFile      = "HEAD"
	headRefPrefix = "ref: refs/heads/"
	headsDir      = "refs/heads"
)

// Init creates a new repository in the directory at path, which must exist.
func Init(path string) (*Repo, error) {
	return InitFS(fsys.NewOS(path), nil)
}

// InitFS creates the .twig/ structure inside work: HEAD, objects/,
// refs/heads/, an empty index and config.toml. A nil cfg uses
// DefaultConfig. Fails with ErrRepositoryAlreadyInitialized if .twig/
// already exists.
func InitFS(work fsys.FS, cfg *Config) (*Repo, error) {
	if work.Exists(DirName) {
		return nil, fmt.Errorf("init: %w", ErrRepositoryAlreadyInitialized)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.fillDefaults()
	if err := validateBranchName(cfg.Init.DefaultBranch); err != nil {
		return nil, fmt.Errorf("init: default branch: %w", err)
	}

	r := newRepo(work, cfg)
	for _, d := range []string{"objects", headsDir} {
		if err := r.Dir.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}
	if err := r.setHead(cfg.Init.DefaultBranch); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.WriteIndex(newIndex()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.logger.Debug("repository initialized", "branch", cfg.Init.DefaultBranch)
	return r, nil
}

// Open searches upward from path for a .twig/ directory and opens the
// repository rooted there.
func Open(path string) (*Repo, error) {
	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, DirName))
		if err == nil && info.IsDir() {
			return OpenFS(fsys.NewOS(cur))
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w (or any parent up to /)", abs, ErrRepositoryNotInitialized)
		}
		cur = parent
	}
}

// OpenFS opens the repository whose .twig/ directory lives at the root of
// work.
func OpenFS(work fsys.FS) (*Repo, error) {
	if !work.IsDir(DirName) {
		return nil, fmt.Errorf("open: %w", ErrRepositoryNotInitialized)
	}
	r := newRepo(work, nil)
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r.Config = cfg
	return r, nil
}

// Head reads .twig/HEAD and returns the ref it points at, e.g.
// "refs/heads/master".
func (r *Repo) Head() (string, error) {
	data, err := r.Dir.ReadFile(headFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("head: %w", ErrRepositoryNotInitialized)
		}
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")
	if !strings.HasPrefix(content, headRefPrefix) {
		return "", fmt.Errorf("head: unexpected content %q", content)
	}
	return strings.TrimPrefix(content, "ref: "), nil
}

func (r *Repo) setHead(branch string) error {
	if err := r.Dir.WriteFile(headFile, []byte(headRefPrefix+branch+"\n"), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}
