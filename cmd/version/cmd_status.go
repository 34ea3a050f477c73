package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the working copy state",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			report, err := r.StatusReport()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "On branch %s\n", report.Branch)

			printSection := func(heading string, entries []string, c *color.Color) {
				if len(entries) == 0 {
					return
				}
				fmt.Fprintln(out, heading)
				for _, e := range entries {
					c.Fprintln(out, e)
				}
			}
			printSection("Untracked files:", report.Untracked, color.New(color.FgRed))
			printSection("Unmerged paths:", report.Conflicted, color.New(color.FgRed))
			printSection("Changes to be committed:", report.ToBeCommitted, color.New(color.FgGreen))
			printSection("Changes not staged for commit:", report.NotStagedByCommit, color.New(color.FgRed))
			return nil
		},
	}
}
