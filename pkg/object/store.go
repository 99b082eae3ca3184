package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/odvcencio/twig/pkg/fsys"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
//
// Each file holds the zlib-compressed envelope "type len\0content".
type Store struct {
	fs     fsys.FS
	logger *slog.Logger
}

// NewStore creates a Store on top of f, which is rooted at the repository
// directory. The objects/ subdirectory is created lazily on first write.
func NewStore(f fsys.FS) *Store {
	return &Store{fs: f, logger: slog.New(slog.DiscardHandler)}
}

// SetLogger replaces the store's logger. A nil logger discards output.
func (s *Store) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s.logger = l
}

// objectPath returns the FS path for a given hash.
func objectPath(h Hash) string {
	return "objects/" + string(h[:2]) + "/" + string(h[2:])
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !ValidHash(h) {
		return false
	}
	return s.fs.Exists(objectPath(h))
}

// Write stores an object and returns its content hash. Writing an object
// that already exists is a no-op.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if !objType.valid() {
		return "", fmt.Errorf("object write: unknown type %q", objType)
	}
	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	fmt.Fprintf(zw, "%s %d\x00", objType, len(data))
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}

	if err := s.fs.WriteFile(objectPath(h), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}
	s.logger.Debug("object written", "hash", string(h), "type", string(objType), "size", len(data))
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !ValidHash(h) {
		return "", nil, fmt.Errorf("object read %q: %w: invalid hash", h, ErrObjectNotFound)
	}
	compressed, err := s.fs.ReadFile(objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: %v", h, ErrCorruptObject, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		zr.Close()
		return "", nil, fmt.Errorf("object read %s: %w: %v", h, ErrCorruptObject, err)
	}
	if err := zr.Close(); err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: %v", h, ErrCorruptObject, err)
	}

	objType, content, err := parseEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, content, nil
}

// parseEnvelope splits "type len\0content" and checks the declared length.
func parseEnvelope(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: invalid format (no NUL)", ErrCorruptObject)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	typ, size, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("%w: invalid header %q", ErrCorruptObject, header)
	}
	objType := ObjectType(typ)
	if !objType.valid() {
		return "", nil, fmt.Errorf("%w: unknown type %q", ErrCorruptObject, typ)
	}
	length, err := strconv.Atoi(size)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid length %q", ErrCorruptObject, size)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrCorruptObject, length, len(content))
	}
	return objType, content, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: %w: type mismatch: got %q, want %q", h, ErrCorruptObject, objType, want)
	}
	return data, nil
}

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a Tree.
func (s *Store) WriteTree(tr *Tree) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a Commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	data, err := MarshalCommit(c)
	if err != nil {
		return "", err
	}
	return s.Write(TypeCommit, data)
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
