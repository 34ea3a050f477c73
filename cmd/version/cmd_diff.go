package main

import (
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [ref1] [ref2]",
		Short: "Show changed paths between revisions",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			var ref1, ref2 string
			if len(args) > 0 {
				ref1 = args[0]
			}
			if len(args) > 1 {
				ref2 = args[1]
			}
			out, err := r.DiffNameStatus(ref1, ref2)
			if err != nil {
				return err
			}
			printResult(cmd, out)
			return nil
		},
	}
}
