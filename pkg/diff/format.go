package diff

import (
	"bytes"
	"fmt"
	"strings"
)

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Unified renders the difference between before and after in unified diff
// format with the given context. oldName and newName label the --- and +++
// lines ("/dev/null" for a missing side). Identical inputs render as "".
// Inputs containing NUL bytes are reported as binary.
func Unified(oldName, newName string, before, after []byte, context int) string {
	if bytes.Equal(before, after) {
		return ""
	}
	if bytes.IndexByte(before, 0) >= 0 || bytes.IndexByte(after, 0) >= 0 {
		return fmt.Sprintf("Binary files %s and %s differ\n", oldName, newName)
	}
	if context < 0 {
		context = 0
	}

	ops := Lines(SplitLines(before), SplitLines(after))

	// oldAt[i] and newAt[i] count the lines of each side consumed before ops[i].
	oldAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	for i, op := range ops {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if op.Type != Insert {
			oldAt[i+1]++
		}
		if op.Type != Delete {
			newAt[i+1]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)
	for i := 0; i < len(ops); {
		if ops[i].Type == Equal {
			i++
			continue
		}
		last := lastChangeInHunk(ops, i, context)
		start := max(i-context, 0)
		end := min(last+context+1, len(ops))

		oldCount, newCount := oldAt[end]-oldAt[start], newAt[end]-newAt[start]
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", hunkRange(oldAt[start], oldCount), hunkRange(newAt[start], newCount))
		for _, op := range ops[start:end] {
			switch op.Type {
			case Equal:
				b.WriteString(" ")
			case Insert:
				b.WriteString("+")
			case Delete:
				b.WriteString("-")
			}
			b.WriteString(op.Line)
			b.WriteString("\n")
		}
		i = end
	}
	return b.String()
}

// lastChangeInHunk returns the index of the last change that belongs to
// the hunk starting at the change first. Changes separated by at most
// 2*context equal lines share a hunk.
func lastChangeInHunk(ops []Op, first, context int) int {
	last := first
	for j := first + 1; j < len(ops); {
		if ops[j].Type != Equal {
			last = j
			j++
			continue
		}
		k := j
		for k < len(ops) && ops[k].Type == Equal {
			k++
		}
		if k == len(ops) || k-j > 2*context {
			break
		}
		j = k
	}
	return last
}

// hunkRange formats the start,count pair of a hunk header. Start is
// 1-based, or the preceding line when the range is empty.
func hunkRange(start, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", start)
	}
	return fmt.Sprintf("%d,%d", start+1, count)
}
