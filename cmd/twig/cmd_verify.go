package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			report, err := r.Store.Verify()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: verified %d object(s), %d byte(s)\n", report.Objects, report.Bytes)
			return nil
		},
	}
}
