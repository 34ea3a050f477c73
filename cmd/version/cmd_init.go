package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/repo"
)

func newInitCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Init(".", repo.InitOpts{Bare: bare})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", r.VersionDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&bare, "bare", false, "create a bare repository")
	return cmd
}
