package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, set via -ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of spdeploy",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spdeploy version %s (commit %s, built %s)\n", Version, Commit, Date)
		},
	}
}
