package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged changes as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			h, err := r.Commit(message, author)
			if err != nil {
				return err
			}

			branch, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			subject, _, _ := strings.Cut(message, "\n")
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, shortHash(string(h)), subject)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "override author (default: user.name)")
	return cmd
}
