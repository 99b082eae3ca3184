package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "twig",
		Short:         "A minimal content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log repository operations to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newReflogCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "twig %s\n", version)
		},
	}
}

// openRepo opens the repository containing the working directory and
// attaches a stderr logger when --verbose is set.
func openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	r, err := repo.Open(".")
	if err != nil {
		return nil, err
	}
	attachLogger(cmd, r)
	return r, nil
}

func attachLogger(cmd *cobra.Command, r *repo.Repo) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		r.SetLogger(slog.New(h))
	}
}

// repoRelPath converts a path given on the command line, relative to the
// process working directory, into a slash-separated path relative to the
// repository root.
func repoRelPath(r *repo.Repo, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	root := r.RootDir
	// Compare resolved paths only when both resolve; a missing file keeps
	// both sides literal.
	if rr, err := filepath.EvalSymlinks(root); err == nil {
		if ra, err := filepath.EvalSymlinks(abs); err == nil {
			root, abs = rr, ra
		}
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q is outside repository %s", p, r.RootDir)
	}
	return rel, nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
