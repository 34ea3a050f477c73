package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/remote"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <remote> <branch>",
		Short: "Download objects and refs from another repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out, err := remote.Fetch(r, args[0], args[1])
			if err != nil {
				return err
			}
			printResult(cmd, out)
			return nil
		},
	}
}
