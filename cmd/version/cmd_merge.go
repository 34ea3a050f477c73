package main

import (
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <ref>",
		Short: "Join another line of development into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out, err := r.Merge(args[0])
			if err != nil {
				return err
			}
			printResult(cmd, out)
			return nil
		},
	}
}
