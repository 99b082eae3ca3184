package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history of the current branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			entries, err := r.Log(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no commits yet")
				return nil
			}

			branch, err := r.CurrentBranch()
			if err != nil {
				return err
			}

			for i, e := range entries {
				decoration := ""
				if i == 0 {
					decoration = " (HEAD -> " + branch + ")"
				}
				c := e.Commit
				if oneline {
					fmt.Fprintf(out, "%s%s %s\n", shortHash(string(e.Hash)), decoration, firstLine(c.Message))
					continue
				}
				fmt.Fprintf(out, "commit %s%s\n", e.Hash, decoration)
				fmt.Fprintf(out, "Author: %s\n", c.Author)
				fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"))
				fmt.Fprintln(out)
				fmt.Fprintf(out, "    %s\n", c.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show (negative for all)")
	return cmd
}
