package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/odvcencio/twig/pkg/fsys"
	"github.com/odvcencio/twig/pkg/object"
)

// Branch describes one entry of ListBranches.
type Branch struct {
	Name    string
	Tip     object.Hash // empty for the unborn current branch
	Current bool
}

func refPath(branch string) string {
	return headsDir + "/" + branch
}

// CurrentBranch returns the branch HEAD points at, e.g. "master".
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	return strings.TrimPrefix(head, "refs/heads/"), nil
}

// Tip returns the commit the branch points at. ok is false when the branch
// has no ref file yet.
func (r *Repo) Tip(branch string) (h object.Hash, ok bool, err error) {
	if err := validateBranchName(branch); err != nil {
		return "", false, fmt.Errorf("read ref: %w", err)
	}
	data, err := r.Dir.ReadFile(refPath(branch))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read ref %s: %w", branch, err)
	}
	h = object.Hash(strings.TrimSpace(string(data)))
	if !object.ValidHash(h) {
		return "", false, fmt.Errorf("read ref %s: invalid hash %q", branch, h)
	}
	return h, true, nil
}

// currentTip returns the current branch and its tip, empty when unborn.
func (r *Repo) currentTip() (string, object.Hash, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return "", "", err
	}
	tip, _, err := r.Tip(branch)
	if err != nil {
		return "", "", err
	}
	return branch, tip, nil
}

// updateRef points branch at h and records the move in the reflog.
func (r *Repo) updateRef(branch string, h object.Hash, reason string) error {
	old, _, err := r.Tip(branch)
	if err != nil {
		return fmt.Errorf("update ref: %w", err)
	}
	if err := r.Dir.WriteFile(refPath(branch), []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("update ref %s: %w", branch, err)
	}
	if err := r.appendReflog(branch, old, h, reason); err != nil {
		return fmt.Errorf("update ref %s: %w", branch, err)
	}
	r.logger.Debug("ref updated", "branch", branch, "old", old, "new", h)
	return nil
}

func (r *Repo) branchExists(name string) bool {
	return r.Dir.Exists(refPath(name)) && !r.Dir.IsDir(refPath(name))
}

// ListBranches returns every branch with a ref file, plus the current
// branch even before its first commit, sorted by name.
func (r *Repo) ListBranches() ([]Branch, error) {
	current, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var names []string
	err = fsys.WalkFiles(r.Dir, headsDir, nil, func(name string) error {
		// Leftover temp files are not branches.
		if b := strings.TrimPrefix(name, headsDir+"/"); validateBranchName(b) == nil {
			names = append(names, b)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	if !r.branchExists(current) {
		names = append(names, current)
	}
	sort.Strings(names)

	out := make([]Branch, 0, len(names))
	for _, name := range names {
		tip, _, err := r.Tip(name)
		if err != nil {
			return nil, fmt.Errorf("list branches: %w", err)
		}
		out = append(out, Branch{Name: name, Tip: tip, Current: name == current})
	}
	return out, nil
}

// CreateBranch creates name at the current branch tip.
func (r *Repo) CreateBranch(name string) (object.Hash, error) {
	if err := validateBranchName(name); err != nil {
		return "", fmt.Errorf("create branch: %w", err)
	}
	if r.branchExists(name) {
		return "", fmt.Errorf("create branch %q: %w", name, ErrBranchAlreadyExists)
	}
	current, tip, err := r.currentTip()
	if err != nil {
		return "", fmt.Errorf("create branch: %w", err)
	}
	if tip == "" {
		return "", fmt.Errorf("create branch %q: %w", name, ErrNoCommits)
	}
	if err := r.updateRef(name, tip, "branch: created from "+current); err != nil {
		return "", fmt.Errorf("create branch: %w", err)
	}
	return tip, nil
}

// DeleteBranch removes the ref and reflog of name. The current branch
// cannot be deleted.
func (r *Repo) DeleteBranch(name string) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch %q: %w", name, ErrDeleteCurrentBranch)
	}
	if !r.branchExists(name) {
		return fmt.Errorf("delete branch %q: %w", name, ErrBranchNotFound)
	}
	if err := r.Dir.Remove(refPath(name)); err != nil {
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	if err := r.Dir.Remove(reflogPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete branch %q: reflog: %w", name, err)
	}
	pruneEmptyParents(r.Dir, refPath(name), headsDir)
	pruneEmptyParents(r.Dir, reflogPath(name), logsDir)
	return nil
}

// validateBranchName rejects names that cannot be stored as ref files.
func validateBranchName(name string) error {
	if name == "" || name == "HEAD" || strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("%w %q", ErrInvalidBranchName, name)
	}
	if cleaned, err := fsys.Clean(name); err != nil || cleaned != name {
		return fmt.Errorf("%w %q", ErrInvalidBranchName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") {
			return fmt.Errorf("%w %q", ErrInvalidBranchName, name)
		}
	}
	for _, c := range name {
		if unicode.IsSpace(c) || unicode.IsControl(c) || strings.ContainsRune(`\~^:?*[`, c) {
			return fmt.Errorf("%w %q", ErrInvalidBranchName, name)
		}
	}
	return nil
}

// pruneEmptyParents removes directories left empty above name, stopping at
// stop ("." for the FS root).
func pruneEmptyParents(f fsys.FS, name, stop string) {
	for dir := path.Dir(name); dir != "." && dir != stop; dir = path.Dir(dir) {
		if stop != "." && !strings.HasPrefix(dir, stop+"/") {
			return
		}
		entries, err := f.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := f.Remove(dir); err != nil {
			return
		}
	}
}
