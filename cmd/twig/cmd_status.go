package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			st, err := r.Status()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func printStatus(out io.Writer, st *repo.StatusReport) {
	if st.Tip == "" {
		fmt.Fprintf(out, "on %s (no commits yet)\n", st.Branch)
	} else {
		fmt.Fprintf(out, "on %s\n", st.Branch)
	}
	if st.Clean {
		fmt.Fprintln(out, "nothing to commit, working tree clean")
		return
	}

	if len(st.Staged) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "staged:")
		for _, c := range st.Staged {
			mark := "+"
			if c.Kind == repo.ChangeModified {
				mark = "~"
			}
			fmt.Fprintf(out, "  %s %s\n", mark, c.Path)
		}
	}
	printSection(out, "unstaged:", "~", st.Unstaged)
	printSection(out, "deleted:", "-", st.Deleted)
	printSection(out, "untracked:", "?", st.Untracked)
}

func printSection(out io.Writer, title, mark string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s %s\n", mark, p)
	}
}
