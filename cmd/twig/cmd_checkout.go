package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var createBranch bool

	cmd := &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Switch branches and update the working tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			res, err := r.Checkout(args[0], createBranch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Created {
				fmt.Fprintf(out, "switched to a new branch '%s'\n", res.Branch)
			} else {
				fmt.Fprintf(out, "switched to branch '%s'\n", res.Branch)
			}
			if n := len(res.Written) + len(res.Removed); n > 0 {
				fmt.Fprintf(out, "updated %d file(s), removed %d file(s)\n", len(res.Written), len(res.Removed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "create", "b", false, "create the branch at the current tip before switching")
	return cmd
}
