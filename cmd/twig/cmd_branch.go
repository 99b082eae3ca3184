package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if deleteBranch != "" {
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			if len(args) == 1 {
				h, err := r.CreateBranch(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "created branch '%s' at %s\n", args[0], shortHash(string(h)))
				return nil
			}

			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				mark := " "
				if b.Current {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, b.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")
	return cmd
}
