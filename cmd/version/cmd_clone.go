package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/remote"
)

func newCloneCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "clone <remote-path> <target-path>",
		Short: "Copy a repository into a new directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := remote.Clone(args[0], args[1], remote.CloneOpts{Bare: bare})
			if err != nil {
				return err
			}
			printResult(cmd, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&bare, "bare", false, "create a bare repository")
	return cmd
}
