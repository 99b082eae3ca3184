package repo

import (
	"testing"
	"time"

	"github.com/odvcencio/twig/pkg/fsys"
	"github.com/odvcencio/twig/pkg/object"
)

const testTime = 1700000000

// newTestRepo initializes a repository on an in-memory filesystem with a
// fixed clock.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := InitFS(fsys.NewMemory(), nil)
	if err != nil {
		t.Fatalf("InitFS: %v", err)
	}
	r.SetClock(func() time.Time { return time.Unix(testTime, 0) })
	return r
}

func writeFile(t *testing.T, r *Repo, name, content string) {
	t.Helper()
	if err := r.Work.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readFile(t *testing.T, r *Repo, name string) string {
	t.Helper()
	data, err := r.Work.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func removeFile(t *testing.T, r *Repo, name string) {
	t.Helper()
	if err := r.Work.Remove(name); err != nil {
		t.Fatalf("remove %s: %v", name, err)
	}
}

func stage(t *testing.T, r *Repo, paths ...string) {
	t.Helper()
	if _, err := r.Stage(paths); err != nil {
		t.Fatalf("Stage(%v): %v", paths, err)
	}
}

// commitWork writes, stages and commits the given files.
func commitWork(t *testing.T, r *Repo, msg string, files map[string]string) object.Hash {
	t.Helper()
	paths := make([]string, 0, len(files))
	for name, content := range files {
		writeFile(t, r, name, content)
		paths = append(paths, name)
	}
	stage(t, r, paths...)
	h, err := r.Commit(msg, "tester")
	if err != nil {
		t.Fatalf("Commit(%q): %v", msg, err)
	}
	return h
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
