package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

// Commit records the staged index as a new commit on the current branch
// and clears the index. An empty author falls back to user.name from the
// config.
func (r *Repo) Commit(message, author string) (object.Hash, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if len(idx.Entries) == 0 {
		return "", fmt.Errorf("commit: %w", ErrNothingToCommit)
	}

	treeHash, err := r.BuildTree(idx)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	branch, parent, err := r.currentTip()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	var parents []object.Hash
	if parent != "" {
		pc, err := r.Store.ReadCommit(parent)
		if err != nil {
			return "", fmt.Errorf("commit: read parent: %w", err)
		}
		if pc.TreeHash == treeHash {
			return "", fmt.Errorf("commit: %w", ErrNoChanges)
		}
		parents = []object.Hash{parent}
	}

	author = strings.TrimSpace(author)
	if author == "" && r.Config != nil {
		author = strings.TrimSpace(r.Config.User.Name)
	}
	if author == "" {
		author = DefaultAuthor
	}
	if !object.ValidSignatureName(author) {
		return "", fmt.Errorf("commit: %w %q", ErrInvalidAuthor, author)
	}

	c := &object.Commit{
		TreeHash:  treeHash,
		Parents:   parents,
		Author:    author,
		Committer: author,
		Timestamp: r.now().Unix(),
		Message:   message,
	}
	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	reason := "commit: "
	if parent == "" {
		reason = "commit (initial): "
	}
	subject, _, _ := strings.Cut(message, "\n")
	if err := r.updateRef(branch, h, reason+subject); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if err := r.clearIndex(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("committed", "branch", branch, "hash", h, "tree", treeHash)
	return h, nil
}
