package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
)

// FileChange holds both revisions of one changed path.
type FileChange struct {
	Path    string
	Before  []byte
	After   []byte
	Added   bool // no previous revision; Before is empty
	Removed bool // missing from the newer side; After is empty
}

// DiffStaged lists index entries whose content differs from the last
// commit.
func (r *Repo) DiffStaged() ([]FileChange, error) {
	_, tip, err := r.currentTip()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	committed, err := r.commitFiles(tip)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	var out []FileChange
	for _, p := range idx.Paths() {
		staged := idx.Entries[p]
		old, tracked := committed[p]
		if tracked && old == staged {
			continue
		}
		c := FileChange{Path: p, Added: !tracked}
		if tracked {
			if c.Before, err = r.blobData(old); err != nil {
				return nil, fmt.Errorf("diff: %w", err)
			}
		}
		if c.After, err = r.blobData(staged); err != nil {
			return nil, fmt.Errorf("diff: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// DiffWorkTree lists tracked paths whose working copy differs from the
// index, or from the last commit when the path is not staged. Untracked
// files are not reported.
func (r *Repo) DiffWorkTree() ([]FileChange, error) {
	_, tip, err := r.currentTip()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	base, err := r.commitFiles(tip)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	for p, h := range idx.Entries {
		base[p] = h
	}

	var out []FileChange
	for _, p := range sortedPaths(base) {
		h := base[p]
		var work []byte
		present := r.Work.Exists(p) && !r.Work.IsDir(p)
		if present {
			if work, err = r.Work.ReadFile(p); err != nil {
				return nil, fmt.Errorf("diff: %w", err)
			}
			if object.HashObject(object.TypeBlob, work) == h {
				continue
			}
		}
		before, err := r.blobData(h)
		if err != nil {
			return nil, fmt.Errorf("diff: %w", err)
		}
		out = append(out, FileChange{Path: p, Before: before, After: work, Removed: !present})
	}
	return out, nil
}

func (r *Repo) blobData(h object.Hash) ([]byte, error) {
	b, err := r.Store.ReadBlob(h)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}
