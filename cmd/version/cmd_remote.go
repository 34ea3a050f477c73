package main

import (
	"github.com/spf13/cobra"
)

func newRemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remote <command> <name> <url>",
		Short: "Manage the set of tracked repositories",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			return r.RemoteAdd(args[0], args[1], args[2])
		},
	}
}
