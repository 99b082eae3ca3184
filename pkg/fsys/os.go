package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OS is an FS backed by a directory on the host filesystem.
type OS struct {
	root string
}

// NewOS returns an FS rooted at dir.
func NewOS(dir string) *OS {
	return &OS{root: dir}
}

// Root returns the host directory backing the FS.
func (o *OS) Root() string {
	return o.root
}

func (o *OS) hostPath(op, name string) (string, error) {
	cleaned, err := Clean(name)
	if err != nil {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(o.root, filepath.FromSlash(cleaned)), nil
}

func (o *OS) ReadFile(name string) ([]byte, error) {
	p, err := o.hostPath("read", name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// WriteFile writes via a temp file in the target directory followed by a
// rename, so readers never observe a partially written file.
func (o *OS) WriteFile(name string, data []byte, perm os.FileMode) error {
	p, err := o.hostPath("write", name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: mkdir: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: tmpfile: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: close: %w", name, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: chmod: %w", name, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: rename: %w", name, err)
	}
	return nil
}

func (o *OS) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := o.hostPath("readdir", name)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(p)
}

func (o *OS) Remove(name string) error {
	p, err := o.hostPath("remove", name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (o *OS) MkdirAll(name string, perm os.FileMode) error {
	p, err := o.hostPath("mkdir", name)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, perm)
}

func (o *OS) Exists(name string) bool {
	p, err := o.hostPath("stat", name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

func (o *OS) IsDir(name string) bool {
	p, err := o.hostPath("stat", name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
