package main

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key [value]]",
		Short: "Get or set repository configuration",
		Long:  "With no arguments, list every setting. Supported keys: user.name, init.default_branch.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch len(args) {
			case 0:
				for _, key := range repo.ConfigKeys() {
					v, err := r.Config.Get(key)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s=%s\n", key, v)
				}
				return nil
			case 1:
				v, err := r.Config.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v)
				return nil
			default:
				cfg := *r.Config
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				return r.WriteConfig(&cfg)
			}
		},
	}
}
