package object

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"testing"

	"github.com/odvcencio/twig/pkg/fsys"
)

func tempStore(t *testing.T) (*Store, fsys.FS) {
	t.Helper()
	f := fsys.NewOS(t.TempDir())
	return NewStore(f), f
}

func TestStoreWriteRead(t *testing.T) {
	s, _ := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if h != "95d09f2b10159347eece71399a7e2e907ea3df4f" {
		t.Errorf("Write hash = %s, want git-compatible blob id", h)
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreFanoutLayoutIsZlibCompressed(t *testing.T) {
	s, f := tempStore(t)
	data := []byte("fanout test")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := f.ReadFile("objects/" + string(h[:2]) + "/" + string(h[2:]))
	if err != nil {
		t.Fatalf("expected fan-out file: %v", err)
	}

	// Decode with the standard library to check the on-disk format is plain zlib.
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("zlib.NewReader: %v", err)
	}
	framed, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	want := "blob 11\x00fanout test"
	if string(framed) != want {
		t.Errorf("framed object = %q, want %q", framed, want)
	}
}

func TestStoreDuplicateWriteIsIdempotent(t *testing.T) {
	s, f := tempStore(t)
	data := []byte("duplicate")
	h1, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	h2, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Same content produced different hashes: %q vs %q", h1, h2)
	}

	entries, err := f.ReadDir("objects/" + string(h1[:2]))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("fan-out dir has %d files, want exactly 1", len(entries))
	}
}

func TestStoreReadMissing(t *testing.T) {
	s, _ := tempStore(t)
	for _, h := range []Hash{testHashA, "not-a-hash", ""} {
		_, _, err := s.Read(h)
		if !errors.Is(err, ErrObjectNotFound) {
			t.Errorf("Read(%q) error = %v, want ErrObjectNotFound", h, err)
		}
	}
	if s.Has(testHashA) {
		t.Error("Has returned true for non-existing object")
	}
}

func TestStoreReadCorrupt(t *testing.T) {
	compress := func(s string) []byte {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		zw.Write([]byte(s))
		zw.Close()
		return buf.Bytes()
	}
	tests := []struct {
		name string
		raw  []byte
	}{
		{"not zlib", []byte("plain bytes")},
		{"no nul", compress("blob 3abc")},
		{"bad length", compress("blob x\x00abc")},
		{"length mismatch", compress("blob 5\x00abc")},
		{"unknown type", compress("tag 3\x00abc")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := fsys.NewMemory()
			s := NewStore(f)
			if err := f.WriteFile(objectPath(testHashA), tc.raw, 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, _, err := s.Read(testHashA)
			if !errors.Is(err, ErrCorruptObject) {
				t.Fatalf("Read error = %v, want ErrCorruptObject", err)
			}
		})
	}
}

func TestStoreTypedRoundTrip(t *testing.T) {
	s := NewStore(fsys.NewMemory())

	blobHash, err := s.WriteBlob(&Blob{Data: []byte("blob content\nwith newlines")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	treeHash, err := s.WriteTree(&Tree{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "file.txt", Hash: blobHash},
	}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commitHash, err := s.WriteCommit(&Commit{
		TreeHash:  treeHash,
		Author:    "tester",
		Committer: "tester",
		Timestamp: 1700000000,
		Message:   "hello",
	})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	c, err := s.ReadCommit(commitHash)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	tr, err := s.ReadTree(c.TreeHash)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(tr.Entries) != 1 || tr.Entries[0].Hash != blobHash {
		t.Fatalf("unexpected tree %#v", tr)
	}
	b, err := s.ReadBlob(tr.Entries[0].Hash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(b.Data) != "blob content\nwith newlines" {
		t.Errorf("blob data = %q", b.Data)
	}
}

func TestStoreTypeMismatch(t *testing.T) {
	s := NewStore(fsys.NewMemory())
	h, err := s.WriteBlob(&Blob{Data: []byte("x")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := s.ReadTree(h); !errors.Is(err, ErrCorruptObject) {
		t.Errorf("ReadTree(blob) error = %v, want ErrCorruptObject", err)
	}
	if _, err := s.ReadCommit(h); !errors.Is(err, ErrCorruptObject) {
		t.Errorf("ReadCommit(blob) error = %v, want ErrCorruptObject", err)
	}
}

func TestStoreWriteRejectsUnknownType(t *testing.T) {
	s := NewStore(fsys.NewMemory())
	if _, err := s.Write(ObjectType("tag"), []byte("x")); err == nil {
		t.Fatal("Write with unknown type succeeded")
	}
}

func TestStoreVerify(t *testing.T) {
	f := fsys.NewMemory()
	s := NewStore(f)

	summary, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify(empty): %v", err)
	}
	if summary.Objects != 0 {
		t.Errorf("Verify(empty) objects = %d, want 0", summary.Objects)
	}

	for _, content := range []string{"one", "two", "three"} {
		if _, err := s.WriteBlob(&Blob{Data: []byte(content)}); err != nil {
			t.Fatalf("WriteBlob: %v", err)
		}
	}
	summary, err = s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if summary.Objects != 3 {
		t.Errorf("Verify objects = %d, want 3", summary.Objects)
	}
	if summary.Bytes != int64(len("one")+len("two")+len("three")) {
		t.Errorf("Verify bytes = %d", summary.Bytes)
	}
}

func TestStoreVerifyDetectsTampering(t *testing.T) {
	f := fsys.NewMemory()
	s := NewStore(f)
	h, err := s.WriteBlob(&Blob{Data: []byte("original")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	// Store different content under the original identifier.
	other := NewStore(fsys.NewMemory())
	otherHash, err := other.WriteBlob(&Blob{Data: []byte("tampered")})
	if err != nil {
		t.Fatalf("WriteBlob(other): %v", err)
	}
	raw, err := other.fs.ReadFile(objectPath(otherHash))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := f.WriteFile(objectPath(h), raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := s.Verify(); !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify error = %v, want ErrCorruptObject", err)
	}
}
