package repo

import "testing"

func TestReflog_RecordsCommits(t *testing.T) {
	r := newTestRepo(t)
	first := commitWork(t, r, "first", map[string]string{"a.txt": "1"})
	second := commitWork(t, r, "second\n\nbody", map[string]string{"a.txt": "2"})

	entries, err := r.ReadReflog("", 0)
	if err != nil {
		t.Fatalf("ReadReflog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d reflog entries, want 2", len(entries))
	}

	newest, oldest := entries[0], entries[1]
	if newest.OldHash != first || newest.NewHash != second || newest.Reason != "commit: second" {
		t.Errorf("newest entry = %+v", newest)
	}
	if oldest.OldHash != zeroHash || oldest.NewHash != first || oldest.Reason != "commit (initial): first" {
		t.Errorf("oldest entry = %+v", oldest)
	}
	if newest.Timestamp != testTime || newest.Branch != "master" {
		t.Errorf("newest entry = %+v", newest)
	}

	limited, err := r.ReadReflog("refs/heads/master", 1)
	if err != nil {
		t.Fatalf("ReadReflog(limit): %v", err)
	}
	if len(limited) != 1 || limited[0].NewHash != second {
		t.Errorf("limited reflog = %+v", limited)
	}
}

func TestReflog_BranchCreation(t *testing.T) {
	r := newTestRepo(t)
	tip := commitWork(t, r, "first", map[string]string{"a.txt": "1"})
	if _, err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	entries, err := r.ReadReflog("feature", 0)
	if err != nil {
		t.Fatalf("ReadReflog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].NewHash != tip || entries[0].Reason != "branch: created from master" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestReflog_Missing(t *testing.T) {
	r := newTestRepo(t)
	entries, err := r.ReadReflog("nope", 0)
	if err != nil {
		t.Fatalf("ReadReflog: %v", err)
	}
	if entries != nil {
		t.Errorf("entries = %+v, want nil", entries)
	}
}
