package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/fsys"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty twig repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			cfg := repo.DefaultConfig()
			if branch != "" {
				cfg.Init.DefaultBranch = branch
			}
			r, err := repo.InitFS(fsys.NewOS(abs), cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty twig repository in %s\n", filepath.Join(r.RootDir, repo.DirName)+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "name of the initial branch (default: init.default_branch)")
	return cmd
}
