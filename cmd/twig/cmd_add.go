package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <paths...>",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(args))
			for _, a := range args {
				rel, err := repoRelPath(r, a)
				if err != nil {
					return err
				}
				paths = append(paths, rel)
			}

			staged, err := r.Stage(paths)
			if err != nil {
				return err
			}
			for _, p := range staged {
				fmt.Fprintf(cmd.OutOrStdout(), "add %s\n", p)
			}
			return nil
		},
	}
}
