package fsys

import (
	"io/fs"
	"os"
)

type subFS struct {
	base FS
	dir  string
}

// Sub returns an FS rooted at dir inside base.
func Sub(base FS, dir string) FS {
	return &subFS{base: base, dir: dir}
}

func (s *subFS) full(op, name string) (string, error) {
	cleaned, err := Clean(name)
	if err != nil {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return Join(s.dir, cleaned), nil
}

func (s *subFS) ReadFile(name string) ([]byte, error) {
	p, err := s.full("read", name)
	if err != nil {
		return nil, err
	}
	return s.base.ReadFile(p)
}

func (s *subFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	p, err := s.full("write", name)
	if err != nil {
		return err
	}
	return s.base.WriteFile(p, data, perm)
}

func (s *subFS) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := s.full("readdir", name)
	if err != nil {
		return nil, err
	}
	return s.base.ReadDir(p)
}

func (s *subFS) Remove(name string) error {
	p, err := s.full("remove", name)
	if err != nil {
		return err
	}
	return s.base.Remove(p)
}

func (s *subFS) MkdirAll(name string, perm os.FileMode) error {
	p, err := s.full("mkdir", name)
	if err != nil {
		return err
	}
	return s.base.MkdirAll(p, perm)
}

func (s *subFS) Exists(name string) bool {
	p, err := s.full("stat", name)
	if err != nil {
		return false
	}
	return s.base.Exists(p)
}

func (s *subFS) IsDir(name string) bool {
	p, err := s.full("stat", name)
	if err != nil {
		return false
	}
	return s.base.IsDir(p)
}
