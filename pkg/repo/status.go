package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/twig/pkg/fsys"
	"github.com/odvcencio/twig/pkg/object"
)

// ChangeKind distinguishes the two staged categories.
type ChangeKind int

const (
	ChangeNew      ChangeKind = iota // staged, absent from the last commit
	ChangeModified                   // staged with a different id than the last commit
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNew:
		return "new"
	case ChangeModified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// StagedChange is one entry of StatusReport.Staged.
type StagedChange struct {
	Path string
	Kind ChangeKind
}

// StatusReport is the three-way comparison of the last commit, the index
// and the working tree. Every list is sorted by path. A path appears in at
// most one staged category and may independently be listed in Unstaged or
// Deleted.
type StatusReport struct {
	Branch string
	Tip    object.Hash // empty before the first commit

	Staged    []StagedChange
	Unstaged  []string // staged content differs from the working copy
	Untracked []string
	Deleted   []string // tracked or staged, missing from the working tree
	Clean     bool
}

// Status compares the last commit tree, the index and the working tree.
func (r *Repo) Status() (*StatusReport, error) {
	branch, tip, err := r.currentTip()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	committed, err := r.commitFiles(tip)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	work, err := r.scanWorkTree(committed, idx.Entries)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	union := make(map[string]struct{}, len(committed)+len(idx.Entries)+len(work))
	for _, m := range []map[string]object.Hash{committed, idx.Entries, work} {
		for p := range m {
			union[p] = struct{}{}
		}
	}
	paths := make([]string, 0, len(union))
	for p := range union {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	rep := &StatusReport{Branch: branch, Tip: tip}
	for _, p := range paths {
		treeID, inTree := committed[p]
		idxID, inIndex := idx.Entries[p]
		workID, inWork := work[p]

		switch {
		case inIndex && !inTree:
			rep.Staged = append(rep.Staged, StagedChange{Path: p, Kind: ChangeNew})
		case inIndex && treeID != idxID:
			rep.Staged = append(rep.Staged, StagedChange{Path: p, Kind: ChangeModified})
		}
		if inIndex && inWork && idxID != workID {
			rep.Unstaged = append(rep.Unstaged, p)
		}
		if inWork && !inIndex && !inTree {
			rep.Untracked = append(rep.Untracked, p)
		}
		if (inIndex || inTree) && !inWork {
			rep.Deleted = append(rep.Deleted, p)
		}
	}
	rep.Clean = len(rep.Staged) == 0 && len(rep.Unstaged) == 0 && len(rep.Untracked) == 0 && len(rep.Deleted) == 0
	return rep, nil
}

// scanWorkTree hashes every non-ignored working file as a blob without
// storing it. Tracked paths are hashed even when an ignore pattern would
// hide them.
func (r *Repo) scanWorkTree(tracked ...map[string]object.Hash) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	hash := func(p string) error {
		data, err := r.Work.ReadFile(p)
		if err != nil {
			return fmt.Errorf("scan %q: %w", p, err)
		}
		out[p] = object.HashObject(object.TypeBlob, data)
		return nil
	}

	ic := r.Ignore()
	if err := fsys.WalkFiles(r.Work, ".", ic.skipFunc(), hash); err != nil {
		return nil, err
	}
	for _, m := range tracked {
		for p := range m {
			if _, seen := out[p]; seen {
				continue
			}
			if r.Work.Exists(p) && !r.Work.IsDir(p) {
				if err := hash(p); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}
