package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/odvcencio/twig/pkg/fsys"
	"github.com/odvcencio/twig/pkg/object"
)

const indexFile = "index"

// Index maps working-tree paths (slash-separated, relative to the root) to
// the blob ids staged for the next commit.
type Index struct {
	Entries map[string]object.Hash
}

func newIndex() *Index {
	return &Index{Entries: make(map[string]object.Hash)}
}

// Paths returns the staged paths in sorted order.
func (idx *Index) Paths() []string {
	return sortedPaths(idx.Entries)
}

// ReadIndex loads .twig/index. A missing file is an empty index.
func (r *Repo) ReadIndex() (*Index, error) {
	data, err := r.Dir.ReadFile(indexFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newIndex(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	idx := newIndex()
	if err := json.Unmarshal(data, &idx.Entries); err != nil {
		return nil, fmt.Errorf("read index: unmarshal: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]object.Hash)
	}
	return idx, nil
}

// WriteIndex replaces .twig/index with idx as a single JSON object.
func (r *Repo) WriteIndex(idx *Index) error {
	entries := idx.Entries
	if entries == nil {
		entries = map[string]object.Hash{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("write index: marshal: %w", err)
	}
	if err := r.Dir.WriteFile(indexFile, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func (r *Repo) clearIndex() error {
	return r.WriteIndex(newIndex())
}

// Stage records the current content of each path in the index. Paths are
// relative to the working-tree root; "." stages the whole tree. Directories
// are walked recursively and ignored paths are skipped. The staged file
// paths are returned sorted.
func (r *Repo) Stage(paths []string) ([]string, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	ic := r.Ignore()

	staged := make(map[string]struct{})
	add := func(p string) error {
		content, err := r.Work.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %q: %w", p, err)
		}
		h, err := r.Store.WriteBlob(&object.Blob{Data: content})
		if err != nil {
			return fmt.Errorf("write blob %q: %w", p, err)
		}
		idx.Entries[p] = h
		staged[p] = struct{}{}
		r.logger.Debug("staged", "path", p, "blob", h)
		return nil
	}

	for _, raw := range paths {
		p, err := fsys.Clean(raw)
		if err != nil {
			return nil, fmt.Errorf("stage: %w", err)
		}
		if p != "." && ic.ignored(p, r.Work.IsDir(p)) {
			return nil, fmt.Errorf("stage %q: %w", raw, ErrPathIgnored)
		}
		if !r.Work.Exists(p) {
			return nil, fmt.Errorf("stage %q: %w", raw, ErrPathNotFound)
		}
		if r.Work.IsDir(p) {
			if err := fsys.WalkFiles(r.Work, p, ic.skipFunc(), add); err != nil {
				return nil, fmt.Errorf("stage: %w", err)
			}
			continue
		}
		if err := add(p); err != nil {
			return nil, fmt.Errorf("stage: %w", err)
		}
	}

	if err := r.WriteIndex(idx); err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}

	out := make([]string, 0, len(staged))
	for p := range staged {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}
