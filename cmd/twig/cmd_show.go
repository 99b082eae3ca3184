package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <hash|branch>",
		Short: "Show an object; commits include the files they changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			h, err := resolveObject(r, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			typ, data, err := r.Store.Read(h)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}

			out := cmd.OutOrStdout()
			switch typ {
			case object.TypeBlob:
				_, err := out.Write(data)
				return err
			case object.TypeTree:
				tr, err := object.UnmarshalTree(data)
				if err != nil {
					return fmt.Errorf("show: %w", err)
				}
				for _, e := range tr.Entries {
					fmt.Fprintf(out, "%-6s %s %s\t%s\n", e.Mode, e.Kind(), e.Hash, e.Name)
				}
				return nil
			default:
				c, err := object.UnmarshalCommit(data)
				if err != nil {
					return fmt.Errorf("show: %w", err)
				}
				return showCommit(out, r, h, c)
			}
		},
	}
}

// resolveObject accepts a full object id or a branch name.
func resolveObject(r *repo.Repo, arg string) (object.Hash, error) {
	if h := object.Hash(strings.ToLower(arg)); object.ValidHash(h) {
		return h, nil
	}
	tip, ok, err := r.Tip(arg)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("show: %q is neither an object id nor a branch with commits", arg)
	}
	return tip, nil
}

func showCommit(out io.Writer, r *repo.Repo, h object.Hash, c *object.Commit) error {
	fmt.Fprintf(out, "commit %s\n", h)
	fmt.Fprintf(out, "Author: %s\n", c.Author)
	fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    %s\n", c.Message)
	fmt.Fprintln(out)

	before := map[string]object.Hash{}
	if len(c.Parents) > 0 {
		parent, err := r.Store.ReadCommit(c.Parents[0])
		if err != nil {
			return fmt.Errorf("show: read parent: %w", err)
		}
		if before, err = r.FlattenTree(parent.TreeHash); err != nil {
			return fmt.Errorf("show: %w", err)
		}
	}
	after, err := r.FlattenTree(c.TreeHash)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	changes := summarizeTreeChanges(before, after)
	if len(changes) == 0 {
		return nil
	}
	fmt.Fprintln(out, "Changes:")
	for _, line := range changes {
		fmt.Fprintf(out, "  %s\n", line)
	}
	return nil
}

func summarizeTreeChanges(before, after map[string]object.Hash) []string {
	paths := make(map[string]struct{}, len(before)+len(after))
	for p := range before {
		paths[p] = struct{}{}
	}
	for p := range after {
		paths[p] = struct{}{}
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var out []string
	for _, p := range sorted {
		b, inBefore := before[p]
		a, inAfter := after[p]
		switch {
		case !inBefore:
			out = append(out, "A "+p)
		case !inAfter:
			out = append(out, "D "+p)
		case a != b:
			out = append(out, "M "+p)
		}
	}
	return out
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
