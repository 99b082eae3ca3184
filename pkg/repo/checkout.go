package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

// CheckoutResult summarizes a branch switch.
type CheckoutResult struct {
	Branch  string
	Tip     object.Hash // empty when the target branch has no commits
	Created bool
	Removed []string
	Written []string
}

// Checkout switches HEAD to branch and syncs the working tree to its tip.
// With create set, the branch is first created at the current tip (or left
// unborn when there is none).
//
// Algorithm:
//  1. Flatten the current tip's tree; these paths may be removed.
//  2. Create or resolve the target branch and flatten its tree.
//  3. Point HEAD at the target.
//  4. Remove old paths absent from the target, pruning emptied directories.
//  5. Write every target file whose working copy differs.
//  6. Clear the index.
//
// A failure during steps 4 and 5 leaves the working tree partially updated.
func (r *Repo) Checkout(branch string, create bool) (*CheckoutResult, error) {
	current, tip, err := r.currentTip()
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	oldFiles, err := r.commitFiles(tip)
	if err != nil {
		return nil, fmt.Errorf("checkout: current tree: %w", err)
	}

	if err := validateBranchName(branch); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	res := &CheckoutResult{Branch: branch, Created: create}
	if create {
		if r.branchExists(branch) {
			return nil, fmt.Errorf("checkout %q: %w", branch, ErrBranchAlreadyExists)
		}
		if tip != "" {
			if err := r.updateRef(branch, tip, "branch: created from "+current); err != nil {
				return nil, fmt.Errorf("checkout: %w", err)
			}
		}
		res.Tip = tip
	} else {
		target, ok, err := r.Tip(branch)
		if err != nil {
			return nil, fmt.Errorf("checkout: %w", err)
		}
		if !ok && branch != current {
			return nil, fmt.Errorf("checkout %q: %w", branch, ErrBranchNotFound)
		}
		res.Tip = target
	}

	newFiles, err := r.commitFiles(res.Tip)
	if err != nil {
		return nil, fmt.Errorf("checkout: target tree: %w", err)
	}
	for p := range newFiles {
		if reservedPath(p) {
			return nil, fmt.Errorf("checkout %q: %w: %s", branch, ErrReservedPath, p)
		}
	}

	if err := r.setHead(branch); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	for _, p := range sortedPaths(oldFiles) {
		if _, keep := newFiles[p]; keep || reservedPath(p) {
			continue
		}
		if err := r.Work.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("checkout: remove %q: %w", p, err)
		}
		pruneEmptyParents(r.Work, p, ".")
		res.Removed = append(res.Removed, p)
		r.logger.Debug("checkout removed", "path", p)
	}

	for _, p := range sortedPaths(newFiles) {
		h := newFiles[p]
		if cur, err := r.Work.ReadFile(p); err == nil && object.HashObject(object.TypeBlob, cur) == h {
			continue
		}
		blob, err := r.Store.ReadBlob(h)
		if err != nil {
			return res, fmt.Errorf("checkout: read %q: %w", p, err)
		}
		if err := r.Work.WriteFile(p, blob.Data, 0o644); err != nil {
			return res, fmt.Errorf("checkout: write %q: %w", p, err)
		}
		res.Written = append(res.Written, p)
		r.logger.Debug("checkout wrote", "path", p, "blob", h)
	}

	if err := r.clearIndex(); err != nil {
		return res, fmt.Errorf("checkout: %w", err)
	}
	return res, nil
}

// reservedPath reports whether p lies inside the repository directory,
// which working-tree updates must never write.
func reservedPath(p string) bool {
	first, _, _ := strings.Cut(p, "/")
	return first == DirName
}

func sortedPaths(m map[string]object.Hash) []string {
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
