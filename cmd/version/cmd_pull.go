package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/remote"
)

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <remote> <branch>",
		Short: "Fetch a branch and merge it into the current branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out, err := remote.Pull(r, args[0], args[1])
			if err != nil {
				return err
			}
			printResult(cmd, out)
			return nil
		},
	}
}
