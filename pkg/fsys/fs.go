// Package fsys provides the file capabilities the repository core consumes:
// reading, writing, listing and removing files under a root.
package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// FS abstracts the filesystem operations used by the object store, the
// index and ref files, and working-tree reconciliation.
//
// Names are slash-separated and relative to the FS root; "." names the root
// itself. Errors for missing names match fs.ErrNotExist.
type FS interface {
	ReadFile(name string) ([]byte, error)
	// WriteFile replaces name with data, creating parent directories.
	WriteFile(name string, data []byte, perm os.FileMode) error
	// ReadDir lists the immediate children of name sorted by name.
	ReadDir(name string) ([]fs.DirEntry, error)
	// Remove deletes a file or an empty directory.
	Remove(name string) error
	MkdirAll(name string, perm os.FileMode) error
	Exists(name string) bool
	IsDir(name string) bool
}

// Clean normalizes name into the canonical form accepted by FS
// implementations. Absolute names and names escaping the root are rejected
// with fs.ErrInvalid.
func Clean(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", &fs.PathError{Op: "clean", Path: name, Err: fs.ErrInvalid}
	}
	cleaned := path.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &fs.PathError{Op: "clean", Path: name, Err: fs.ErrInvalid}
	}
	return cleaned, nil
}

// Join joins slash-separated name elements, treating "." and "" as the root.
func Join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e == "" || e == "." {
			continue
		}
		parts = append(parts, e)
	}
	if len(parts) == 0 {
		return "."
	}
	return path.Join(parts...)
}

// WalkFunc is called for every regular file found by WalkFiles.
type WalkFunc func(name string) error

// WalkFiles visits every file below dir in lexical order. skip is consulted
// for every entry (files and directories); a skipped directory is not
// descended into.
func WalkFiles(f FS, dir string, skip func(name string, isDir bool) bool, fn WalkFunc) error {
	entries, err := f.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}
	for _, e := range entries {
		name := Join(dir, e.Name())
		if skip != nil && skip(name, e.IsDir()) {
			continue
		}
		if e.IsDir() {
			if err := WalkFiles(f, name, skip, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}
