package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree in Git's binary layout. Entries are sorted
// by Name for deterministic output, each one encoded as
//
//	<mode> <name>\0<20-byte hash>
//
// An empty Mode is written as TreeModeFile.
func MarshalTree(tr *Tree) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		mode := e.Mode
		if mode == "" {
			mode = TreeModeFile
		}
		if !validTreeMode(mode) {
			return nil, fmt.Errorf("marshal tree: entry %q: %w: unknown mode %q", e.Name, ErrMalformedTree, mode)
		}
		if err := validEntryName(e.Name); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("marshal tree: %w: duplicate entry %q", ErrMalformedTree, e.Name)
		}
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != HashSize {
			return nil, fmt.Errorf("marshal tree: entry %q: %w: invalid hash %q", e.Name, ErrMalformedTree, e.Hash)
		}
		fmt.Fprintf(&buf, "%s %s\x00", mode, e.Name)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a Tree from its serialized form.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	for off := 0; off < len(data); {
		sp := bytes.IndexByte(data[off:], ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: missing mode separator at offset %d", ErrMalformedTree, off)
		}
		mode := string(data[off : off+sp])
		if !validTreeMode(mode) {
			return nil, fmt.Errorf("unmarshal tree: %w: unknown mode %q", ErrMalformedTree, mode)
		}
		off += sp + 1

		nul := bytes.IndexByte(data[off:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: unterminated name at offset %d", ErrMalformedTree, off)
		}
		name := string(data[off : off+nul])
		if err := validEntryName(name); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		off += nul + 1

		if len(data)-off < HashSize {
			return nil, fmt.Errorf("unmarshal tree: %w: truncated hash for %q", ErrMalformedTree, name)
		}
		h := Hash(hex.EncodeToString(data[off : off+HashSize]))
		off += HashSize

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}
	return tr, nil
}

func validTreeMode(mode string) bool {
	return mode == TreeModeFile || mode == TreeModeDir
}

func validEntryName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("%w: invalid entry name %q", ErrMalformedTree, name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

const commitTimezone = "+0000"

// MarshalCommit serializes a Commit:
//
//	tree H
//	parent H        (zero or more)
//	author A T +0000
//	committer C T +0000
//
//	message
//
// Author and committer names may not contain a newline or NUL, since either
// would end the header line early.
func MarshalCommit(c *Commit) ([]byte, error) {
	committer := c.Committer
	if committer == "" {
		committer = c.Author
	}
	if err := validSignatureName(c.Author); err != nil {
		return nil, fmt.Errorf("marshal commit: author: %w", err)
	}
	if err := validSignatureName(committer); err != nil {
		return nil, fmt.Errorf("marshal commit: committer: %w", err)
	}
	for _, p := range c.Parents {
		if !ValidHash(p) {
			return nil, fmt.Errorf("marshal commit: %w: bad parent hash %q", ErrMalformedCommit, p)
		}
	}
	if !ValidHash(c.TreeHash) {
		return nil, fmt.Errorf("marshal commit: %w: bad tree hash %q", ErrMalformedCommit, c.TreeHash)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.TreeHash))
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", string(p))
	}
	fmt.Fprintf(&buf, "author %s %d %s\n", c.Author, c.Timestamp, commitTimezone)
	fmt.Fprintf(&buf, "committer %s %d %s\n", committer, c.Timestamp, commitTimezone)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes(), nil
}

// ValidSignatureName reports whether name can be written as an author or
// committer.
func ValidSignatureName(name string) bool {
	return validSignatureName(name) == nil
}

func validSignatureName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "\n\x00") {
		return fmt.Errorf("%w: invalid signature name %q", ErrMalformedCommit, name)
	}
	return nil
}

// UnmarshalCommit parses a Commit from its serialized form. The "commiter"
// spelling is accepted as an alias for "committer".
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrMalformedCommit)
	}
	header := string(data[:idx])
	c := &Commit{Message: string(data[idx+2:])}

	hasTree := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrMalformedCommit, line)
		}
		switch key {
		case "tree":
			if !ValidHash(Hash(val)) {
				return nil, fmt.Errorf("unmarshal commit: %w: bad tree hash %q", ErrMalformedCommit, val)
			}
			c.TreeHash = Hash(val)
			hasTree = true
		case "parent":
			if !ValidHash(Hash(val)) {
				return nil, fmt.Errorf("unmarshal commit: %w: bad parent hash %q", ErrMalformedCommit, val)
			}
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			name, ts, err := parseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: author: %w", err)
			}
			c.Author = name
			c.Timestamp = ts
		case "committer", "commiter":
			name, _, err := parseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: committer: %w", err)
			}
			c.Committer = name
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrMalformedCommit, key)
		}
	}
	if !hasTree {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree line", ErrMalformedCommit)
	}
	return c, nil
}

// parseSignature splits "<name> <unix-ts> <tz>" where name may contain
// spaces.
func parseSignature(val string) (string, int64, error) {
	tzIdx := strings.LastIndexByte(val, ' ')
	if tzIdx < 0 {
		return "", 0, fmt.Errorf("%w: malformed signature %q", ErrMalformedCommit, val)
	}
	rest := val[:tzIdx]
	tsIdx := strings.LastIndexByte(rest, ' ')
	if tsIdx < 0 {
		return "", 0, fmt.Errorf("%w: malformed signature %q", ErrMalformedCommit, val)
	}
	ts, err := strconv.ParseInt(rest[tsIdx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad timestamp %q", ErrMalformedCommit, rest[tsIdx+1:])
	}
	return rest[:tsIdx], ts, nil
}
