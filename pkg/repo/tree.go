package repo

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

// BuildTree converts the flat index into a hierarchy of tree objects,
// writing one tree per directory and returning the root id. Entries are
// grouped by their first path segment and written in name order, so equal
// indexes always produce the same root id.
func (r *Repo) BuildTree(idx *Index) (object.Hash, error) {
	for p := range idx.Entries {
		if reservedPath(p) {
			return "", fmt.Errorf("build tree: %w: %s", ErrReservedPath, p)
		}
	}
	return r.buildTreeDir(idx.Entries)
}

// buildTreeDir writes the tree for entries whose paths are relative to the
// directory being built.
func (r *Repo) buildTreeDir(entries map[string]object.Hash) (object.Hash, error) {
	files := make(map[string]object.Hash)
	subdirs := make(map[string]map[string]object.Hash)

	for p, h := range entries {
		first, rest, nested := strings.Cut(p, "/")
		if !nested {
			files[first] = h
			continue
		}
		child, ok := subdirs[first]
		if !ok {
			child = make(map[string]object.Hash)
			subdirs[first] = child
		}
		child[rest] = h
	}

	names := make([]string, 0, len(files)+len(subdirs))
	for name := range files {
		if _, clash := subdirs[name]; clash {
			return "", fmt.Errorf("build tree: %q is both a file and a directory", name)
		}
		names = append(names, name)
	}
	for name := range subdirs {
		names = append(names, name)
	}
	sort.Strings(names)

	tr := &object.Tree{Entries: make([]object.TreeEntry, 0, len(names))}
	for _, name := range names {
		if h, isFile := files[name]; isFile {
			tr.Entries = append(tr.Entries, object.TreeEntry{Mode: object.TreeModeFile, Name: name, Hash: h})
			continue
		}
		sub, err := r.buildTreeDir(subdirs[name])
		if err != nil {
			return "", fmt.Errorf("build tree %q: %w", name, err)
		}
		tr.Entries = append(tr.Entries, object.TreeEntry{Mode: object.TreeModeDir, Name: name, Hash: sub})
	}

	h, err := r.Store.WriteTree(tr)
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}
	return h, nil
}

// FlattenTree walks the tree at h and returns every file path below it
// mapped to its blob id.
func (r *Repo) FlattenTree(h object.Hash) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	if err := r.flattenTreeRec(h, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string, out map[string]object.Hash) error {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return fmt.Errorf("flatten tree: read %s: %w", h, err)
	}
	for _, e := range tr.Entries {
		full := e.Name
		if prefix != "" {
			full = path.Join(prefix, e.Name)
		}
		if e.IsDir() {
			if err := r.flattenTreeRec(e.Hash, full, out); err != nil {
				return err
			}
			continue
		}
		out[full] = e.Hash
	}
	return nil
}

// commitFiles returns the flattened tree of commit h, or an empty map when
// h is empty.
func (r *Repo) commitFiles(h object.Hash) (map[string]object.Hash, error) {
	if h == "" {
		return map[string]object.Hash{}, nil
	}
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	return r.FlattenTree(c.TreeHash)
}
