package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/repo"
)

func newRmCmd() *cobra.Command {
	var recursive, force bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove files from the index and working copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			return r.Rm(args[0], repo.RmOpts{Recursive: recursive, Force: force})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories recursively")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "unsupported")
	return cmd
}
