package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/remote"
)

func newPushCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "push <remote> <branch>",
		Short: "Update a remote branch with local commits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out, err := remote.Push(r, args[0], args[1], force)
			if err != nil {
				return err
			}
			printResult(cmd, out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "allow non-fast-forward updates")
	return cmd
}
