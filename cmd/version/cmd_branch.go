package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonathanalvares9009/version/pkg/repo"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name]",
		Short: "List branches or create a new one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			out, err := r.Branch(name, repo.BranchOpts{})
			if err != nil {
				return err
			}

			// Highlight the current branch in listings.
			green := color.New(color.FgGreen)
			for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
				if line == "" {
					continue
				}
				if strings.HasPrefix(line, "* ") {
					green.Fprintln(cmd.OutOrStdout(), line)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			}
			return nil
		},
	}
}
