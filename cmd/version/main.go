package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathanalvares9009/version/pkg/repo"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "version",
		Short:         "A content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	cmd.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newRmCmd(),
		newCommitCmd(),
		newBranchCmd(),
		newCheckoutCmd(),
		newDiffCmd(),
		newMergeCmd(),
		newRemoteCmd(),
		newFetchCmd(),
		newPushCmd(),
		newPullCmd(),
		newCloneCmd(),
		newStatusCmd(),
		newLogCmd(),
		newBundleCmd(),
	)
	return cmd
}

// openRepo opens the repository enclosing the working directory and wires
// the logger selected by --verbose.
func openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	r, err := repo.Open(".")
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			r.SetLogger(logger)
		}
	}
	return r, nil
}

// printResult writes a porcelain result line when it is non-empty.
func printResult(cmd *cobra.Command, out string) {
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
}
