package main

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/diff"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var staged bool
	var context int

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show line changes in the working tree or the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			var changes []repo.FileChange
			if staged {
				changes, err = r.DiffStaged()
			} else {
				changes, err = r.DiffWorkTree()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range changes {
				oldName, newName := "a/"+c.Path, "b/"+c.Path
				if c.Added {
					oldName = "/dev/null"
				}
				if c.Removed {
					newName = "/dev/null"
				}
				fmt.Fprintf(out, "diff --twig a/%s b/%s\n", c.Path, c.Path)
				fmt.Fprint(out, diff.Unified(oldName, newName, c.Before, c.After, context))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&staged, "staged", false, "compare the index against the last commit")
	cmd.Flags().IntVarP(&context, "unified", "U", diff.DefaultContext, "lines of context around each change")
	return cmd
}
