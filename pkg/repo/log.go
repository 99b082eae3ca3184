package repo

import (
	"fmt"
	"iter"

	"github.com/odvcencio/twig/pkg/object"
)

// LogEntry pairs a commit with its id.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// History walks first parents from start, newest first. It stops at the
// root commit, after limit entries, or at the first read error, which is
// yielded as the final element. limit == 0 yields nothing; a negative limit
// is unlimited.
func (r *Repo) History(start object.Hash, limit int) iter.Seq2[LogEntry, error] {
	return func(yield func(LogEntry, error) bool) {
		h := start
		for n := 0; h != "" && (limit < 0 || n < limit); n++ {
			c, err := r.Store.ReadCommit(h)
			if err != nil {
				yield(LogEntry{}, fmt.Errorf("history: read %s: %w", h, err))
				return
			}
			if !yield(LogEntry{Hash: h, Commit: c}, nil) {
				return
			}
			h = ""
			if len(c.Parents) > 0 {
				h = c.Parents[0]
			}
		}
	}
}

// Log returns up to limit commits reachable from the current branch tip. An
// unborn branch has an empty log.
func (r *Repo) Log(limit int) ([]LogEntry, error) {
	_, tip, err := r.currentTip()
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	var out []LogEntry
	for e, err := range r.History(tip, limit) {
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
