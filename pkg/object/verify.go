package object

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// VerifySummary reports the outcome of Store.Verify.
type VerifySummary struct {
	Objects int
	Bytes   int64
}

// Verify re-reads every stored object and checks that its content hashes
// to the identifier it is stored under.
func (s *Store) Verify() (*VerifySummary, error) {
	hashes, err := s.listHashes()
	if err != nil {
		return nil, err
	}

	summary := &VerifySummary{}
	for _, h := range hashes {
		objType, content, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		if got := HashObject(objType, content); got != h {
			return nil, fmt.Errorf("verify: object %s: %w: content hashes to %s", h, ErrCorruptObject, got)
		}
		summary.Objects++
		summary.Bytes += int64(len(content))
	}
	return summary, nil
}

// listHashes returns the identifiers of all stored objects in lexical order.
func (s *Store) listHashes() ([]Hash, error) {
	fanout, err := s.fs.ReadDir("objects")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var hashes []Hash
	for _, dir := range fanout {
		if !dir.IsDir() || len(dir.Name()) != 2 {
			continue
		}
		files, err := s.fs.ReadDir("objects/" + dir.Name())
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, f := range files {
			if f.IsDir() || strings.HasPrefix(f.Name(), ".") {
				continue
			}
			h := Hash(dir.Name() + f.Name())
			if ValidHash(h) {
				hashes = append(hashes, h)
			}
		}
	}
	return hashes, nil
}
