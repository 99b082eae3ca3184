package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"
	"time"
)

var errDirNotEmpty = errors.New("directory not empty")

// Memory is an in-memory FS, used by tests and for repositories that never
// touch disk.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

// NewMemory returns an empty in-memory FS containing only the root.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		dirs:  map[string]struct{}{".": {}},
	}
}

func (m *Memory) ReadFile(name string) ([]byte, error) {
	p, err := Clean(name)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) WriteFile(name string, data []byte, perm os.FileMode) error {
	p, err := Clean(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, isDir := m.dirs[p]; isDir {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrExist}
	}
	if err := m.mkdirAllLocked(path.Dir(p)); err != nil {
		return err
	}
	m.files[p] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := Clean(name)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.dirs[p]; !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	var out []fs.DirEntry
	for d := range m.dirs {
		if d != "." && path.Dir(d) == p {
			out = append(out, memEntry{name: path.Base(d), dir: true})
		}
	}
	for f, data := range m.files {
		if path.Dir(f) == p {
			out = append(out, memEntry{name: path.Base(f), size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *Memory) Remove(name string) error {
	p, err := Clean(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		return nil
	}
	if _, ok := m.dirs[p]; !ok || p == "." {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	for d := range m.dirs {
		if d != "." && path.Dir(d) == p {
			return &fs.PathError{Op: "remove", Path: name, Err: errDirNotEmpty}
		}
	}
	for f := range m.files {
		if path.Dir(f) == p {
			return &fs.PathError{Op: "remove", Path: name, Err: errDirNotEmpty}
		}
	}
	delete(m.dirs, p)
	return nil
}

func (m *Memory) MkdirAll(name string, perm os.FileMode) error {
	p, err := Clean(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkdirAllLocked(p)
}

func (m *Memory) mkdirAllLocked(p string) error {
	for cur := p; cur != "."; cur = path.Dir(cur) {
		if _, isFile := m.files[cur]; isFile {
			return &fs.PathError{Op: "mkdir", Path: cur, Err: fs.ErrExist}
		}
	}
	for cur := p; cur != "."; cur = path.Dir(cur) {
		m.dirs[cur] = struct{}{}
	}
	return nil
}

func (m *Memory) Exists(name string) bool {
	p, err := Clean(name)
	if err != nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, isFile := m.files[p]
	_, isDir := m.dirs[p]
	return isFile || isDir
}

func (m *Memory) IsDir(name string) bool {
	p, err := Clean(name)
	if err != nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, isDir := m.dirs[p]
	return isDir
}

type memEntry struct {
	name string
	dir  bool
	size int64
}

func (e memEntry) Name() string { return e.name }
func (e memEntry) IsDir() bool  { return e.dir }

func (e memEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}

func (e memEntry) Info() (fs.FileInfo, error) { return memInfo{e}, nil }

type memInfo struct {
	e memEntry
}

func (i memInfo) Name() string       { return i.e.name }
func (i memInfo) Size() int64        { return i.e.size }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.e.dir }
func (i memInfo) Sys() any           { return nil }

func (i memInfo) Mode() fs.FileMode {
	if i.e.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
