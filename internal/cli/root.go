// Package cli holds the jobboard command tree.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

func (b BuildInfo) print(w io.Writer) {
	fmt.Fprintf(w, "\nBuild version: %s\nBuild date: %s\nBuild commit: %s\n", b.Version, b.Date, b.Commit)
}

// NewRootCommand builds the jobboard command with every subcommand.
func NewRootCommand(build BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "jobboard",
		Short:         "Job board backend and terminal front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(build),
		newMigrateCommand(),
		newUICommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build metadata",
			Run: func(cmd *cobra.Command, _ []string) {
				build.print(cmd.OutOrStdout())
			},
		},
	)

	return root
}
