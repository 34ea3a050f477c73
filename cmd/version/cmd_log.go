package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show first-parent commit history",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			entries, err := r.Log(limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				short := string(e.Hash)
				if len(short) > 8 {
					short = short[:8]
				}
				subject, _, _ := strings.Cut(e.Message, "\n")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", short, subject)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "limit the number of commits")
	return cmd
}
