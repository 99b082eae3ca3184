package repo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

const (
	logsDir  = "logs/refs/heads"
	zeroHash = object.Hash("0000000000000000000000000000000000000000")
)

// ReflogEntry is one recorded move of a branch ref.
type ReflogEntry struct {
	Branch    string
	OldHash   object.Hash // zeroHash when the branch was created
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

func reflogPath(branch string) string {
	return logsDir + "/" + branch
}

func (r *Repo) appendReflog(branch string, oldHash, newHash object.Hash, reason string) error {
	reason = strings.Join(strings.Fields(reason), " ")
	if reason == "" {
		reason = "update"
	}
	if oldHash == "" {
		oldHash = zeroHash
	}
	if newHash == "" {
		newHash = zeroHash
	}
	line := fmt.Sprintf("%s %s %d %s\n", oldHash, newHash, r.now().Unix(), reason)

	p := reflogPath(branch)
	existing, err := r.Dir.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reflog read: %w", err)
	}
	if err := r.Dir.WriteFile(p, append(existing, line...), 0o644); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

// ReadReflog returns the recorded moves of branch, newest first. An empty
// branch means the current one; limit <= 0 returns everything.
func (r *Repo) ReadReflog(branch string, limit int) ([]ReflogEntry, error) {
	if strings.TrimSpace(branch) == "" || branch == "HEAD" {
		cur, err := r.CurrentBranch()
		if err != nil {
			return nil, fmt.Errorf("read reflog: %w", err)
		}
		branch = cur
	}
	branch = strings.TrimPrefix(branch, "refs/heads/")
	if err := validateBranchName(branch); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	data, err := r.Dir.ReadFile(reflogPath(branch))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	var entries []ReflogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, ReflogEntry{
			Branch:    branch,
			OldHash:   object.Hash(parts[0]),
			NewHash:   object.Hash(parts[1]),
			Timestamp: ts,
			Reason:    parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	// Return newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
