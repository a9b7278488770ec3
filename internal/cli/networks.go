package cli

import (
	"github.com/spf13/cobra"
	"github.com/superposition-labs/spdeploy/internal/cli/render"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List networks from spdeploy.toml",
		Long: `List all networks configured in the [networks] section of spdeploy.toml.

The active network (--network or default_network) is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout(), !app.Config.NonInteractive).Render(result)
		},
	}
}
