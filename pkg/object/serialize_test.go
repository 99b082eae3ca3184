package object

import (
	"bytes"
	"encoding/hex"
	"errors"
	"reflect"
	"testing"
)

const (
	testHashA Hash = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	testHashB Hash = "95d09f2b10159347eece71399a7e2e907ea3df4f"
	testHashC Hash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
)

func TestMarshalUnmarshalBlob(t *testing.T) {
	orig := &Blob{Data: []byte("hello world\nline two")}
	data := MarshalBlob(orig)
	got, err := UnmarshalBlob(data)
	if err != nil {
		t.Fatalf("UnmarshalBlob: %v", err)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("Blob round-trip mismatch: got %q, want %q", got.Data, orig.Data)
	}
}

func TestMarshalTreeBinaryLayout(t *testing.T) {
	tr := &Tree{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "a.txt", Hash: testHashA},
	}}
	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	raw, _ := hex.DecodeString(string(testHashA))
	want := append([]byte("100644 a.txt\x00"), raw...)
	if !bytes.Equal(data, want) {
		t.Errorf("MarshalTree = %q, want %q", data, want)
	}
}

func TestMarshalTreeSortsEntries(t *testing.T) {
	forward := &Tree{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "a", Hash: testHashA},
		{Mode: TreeModeDir, Name: "b", Hash: testHashC},
		{Mode: TreeModeFile, Name: "c", Hash: testHashB},
	}}
	reversed := &Tree{Entries: []TreeEntry{
		forward.Entries[2], forward.Entries[0], forward.Entries[1],
	}}

	d1, err := MarshalTree(forward)
	if err != nil {
		t.Fatalf("MarshalTree(forward): %v", err)
	}
	d2, err := MarshalTree(reversed)
	if err != nil {
		t.Fatalf("MarshalTree(reversed): %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("entry order changed the serialized tree")
	}
	if HashObject(TypeTree, d1) != HashObject(TypeTree, d2) {
		t.Error("entry order changed the tree identifier")
	}
}

func TestTreeRoundTrip(t *testing.T) {
	orig := &Tree{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "README.md", Hash: testHashA},
		{Mode: TreeModeDir, Name: "pkg", Hash: testHashC},
		{Mode: TreeModeFile, Name: "with space.txt", Hash: testHashB},
	}}
	data, err := MarshalTree(orig)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Errorf("tree round-trip mismatch:\n got  %#v\n want %#v", got, orig)
	}

	again, err := MarshalTree(got)
	if err != nil {
		t.Fatalf("MarshalTree(again): %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("serialize(parse(serialize(x))) != serialize(x)")
	}
	if got.Entries[1].Kind() != TypeTree || got.Entries[0].Kind() != TypeBlob {
		t.Error("entry kinds not derived from mode")
	}
}

func TestUnmarshalEmptyTree(t *testing.T) {
	tr, err := UnmarshalTree(nil)
	if err != nil {
		t.Fatalf("UnmarshalTree(empty): %v", err)
	}
	if len(tr.Entries) != 0 {
		t.Errorf("empty tree has %d entries", len(tr.Entries))
	}
}

func TestUnmarshalTreeMalformed(t *testing.T) {
	raw, _ := hex.DecodeString(string(testHashA))
	tests := []struct {
		name string
		data []byte
	}{
		{"missing space", []byte("100644a.txt\x00")},
		{"missing nul", []byte("100644 a.txt")},
		{"truncated hash", append([]byte("100644 a.txt\x00"), raw[:10]...)},
		{"unknown mode", append([]byte("100755 a.txt\x00"), raw...)},
		{"empty name", append([]byte("100644 \x00"), raw...)},
		{"trailing garbage", append(append([]byte("100644 a.txt\x00"), raw...), 'x')},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalTree(tc.data)
			if !errors.Is(err, ErrMalformedTree) {
				t.Fatalf("UnmarshalTree error = %v, want ErrMalformedTree", err)
			}
		})
	}
}

func TestMarshalTreeRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry TreeEntry
	}{
		{"bad hash", TreeEntry{Mode: TreeModeFile, Name: "a", Hash: "xyz"}},
		{"slash in name", TreeEntry{Mode: TreeModeFile, Name: "a/b", Hash: testHashA}},
		{"unknown mode", TreeEntry{Mode: "120000", Name: "a", Hash: testHashA}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MarshalTree(&Tree{Entries: []TreeEntry{tc.entry}})
			if !errors.Is(err, ErrMalformedTree) {
				t.Fatalf("MarshalTree error = %v, want ErrMalformedTree", err)
			}
		})
	}
}

func TestMarshalCommitFormat(t *testing.T) {
	c := &Commit{
		TreeHash:  testHashC,
		Parents:   []Hash{testHashA},
		Author:    "Ada Lovelace <ada@example.com>",
		Timestamp: 1700000000,
		Message:   "first line\n\nbody",
	}
	want := "tree " + string(testHashC) + "\n" +
		"parent " + string(testHashA) + "\n" +
		"author Ada Lovelace <ada@example.com> 1700000000 +0000\n" +
		"committer Ada Lovelace <ada@example.com> 1700000000 +0000\n" +
		"\n" +
		"first line\n\nbody"
	data, err := MarshalCommit(c)
	if err != nil {
		t.Fatalf("MarshalCommit: %v", err)
	}
	if got := string(data); got != want {
		t.Errorf("MarshalCommit:\n got  %q\n want %q", got, want)
	}
}

func TestCommitRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		commit *Commit
	}{
		{
			name: "root commit",
			commit: &Commit{
				TreeHash:  testHashC,
				Author:    "Anonymous <user@twig>",
				Committer: "Anonymous <user@twig>",
				Timestamp: 42,
				Message:   "first",
			},
		},
		{
			name: "two parents",
			commit: &Commit{
				TreeHash:  testHashC,
				Parents:   []Hash{testHashA, testHashB},
				Author:    "a",
				Committer: "b",
				Timestamp: 1700000000,
				Message:   "merge\n\ntwo parents kept in order\n",
			},
		},
		{
			name: "empty message",
			commit: &Commit{
				TreeHash:  testHashC,
				Author:    "a",
				Committer: "a",
				Timestamp: 1,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := MarshalCommit(tc.commit)
			if err != nil {
				t.Fatalf("MarshalCommit: %v", err)
			}
			got, err := UnmarshalCommit(data)
			if err != nil {
				t.Fatalf("UnmarshalCommit: %v", err)
			}
			if !reflect.DeepEqual(got, tc.commit) {
				t.Errorf("commit round-trip mismatch:\n got  %#v\n want %#v", got, tc.commit)
			}
			again, err := MarshalCommit(got)
			if err != nil {
				t.Fatalf("MarshalCommit(parsed): %v", err)
			}
			if !bytes.Equal(again, data) {
				t.Error("serialize(parse(serialize(x))) != serialize(x)")
			}
		})
	}
}

func TestCommitEmptyCommitterParsesAsAuthor(t *testing.T) {
	c := &Commit{TreeHash: testHashC, Author: "a", Timestamp: 5, Message: "m"}
	data, err := MarshalCommit(c)
	if err != nil {
		t.Fatalf("MarshalCommit: %v", err)
	}
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if got.Committer != "a" {
		t.Errorf("Committer = %q, want the author", got.Committer)
	}
	again, err := MarshalCommit(got)
	if err != nil {
		t.Fatalf("MarshalCommit(parsed): %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("empty committer and explicit author serialize differently")
	}
}

func TestMarshalCommitRejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name   string
		commit Commit
	}{
		{"newline in author", Commit{TreeHash: testHashC, Author: "Eve\nparent x"}},
		{"NUL in author", Commit{TreeHash: testHashC, Author: "Eve\x00"}},
		{"newline in committer", Commit{TreeHash: testHashC, Author: "a", Committer: "b\nc"}},
		{"empty author", Commit{TreeHash: testHashC}},
		{"bad tree hash", Commit{TreeHash: "nothex", Author: "a"}},
		{"bad parent hash", Commit{TreeHash: testHashC, Parents: []Hash{"xyz"}, Author: "a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MarshalCommit(&tc.commit); !errors.Is(err, ErrMalformedCommit) {
				t.Fatalf("MarshalCommit error = %v, want ErrMalformedCommit", err)
			}
		})
	}
}

func TestUnmarshalCommitAcceptsCommiterSpelling(t *testing.T) {
	data := []byte("tree " + string(testHashC) + "\n" +
		"author someone 10 +0000\n" +
		"commiter someone 10 +0000\n" +
		"\nmsg")
	c, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if c.Committer != "someone" || c.Timestamp != 10 || c.Message != "msg" {
		t.Errorf("unexpected commit %#v", c)
	}
}

func TestUnmarshalCommitMalformed(t *testing.T) {
	tree := "tree " + string(testHashC) + "\n"
	tests := []struct {
		name string
		data string
	}{
		{"missing tree", "author a 1 +0000\ncommitter a 1 +0000\n\nmsg"},
		{"missing separator", tree + "author a 1 +0000"},
		{"bad timestamp", tree + "author a soon +0000\n\nmsg"},
		{"bad tree hash", "tree nothex\n\nmsg"},
		{"unknown header", tree + "color blue\n\nmsg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalCommit([]byte(tc.data))
			if !errors.Is(err, ErrMalformedCommit) {
				t.Fatalf("UnmarshalCommit error = %v, want ErrMalformedCommit", err)
			}
		})
	}
}
