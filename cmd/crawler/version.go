package main

import (
	"fmt"

	"github.com/alvmarrod/site-weaver/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of site-weaver.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "site-weaver version %s\n", version.Get())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.GetCommit())
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.GetDate())
		},
	}
}
