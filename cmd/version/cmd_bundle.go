package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/remote"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Move objects by file instead of by network",
	}

	create := &cobra.Command{
		Use:   "create <file>",
		Short: "Write all objects and branch heads to a bundle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			return remote.WriteBundleFile(r, args[0])
		},
	}

	extract := &cobra.Command{
		Use:   "extract <file>",
		Short: "Import objects from a bundle file",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			refs, count, err := remote.ReadBundleFile(r, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Count %d\n", count)
			for _, ref := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ref.Hash, ref.Name)
			}
			return nil
		},
	}
	extract.Args = cobra.ExactArgs(1)

	cmd.AddCommand(create, extract)
	return cmd
}
