package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/superposition-labs/spdeploy/internal/cli/render"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		contractName string
		deployType   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployments recorded under deployments/.

Only the active network is listed when one is selected (--network or
default_network); otherwise all networks are.`,
		Example: `  # List all deployments
  spdeploy list

  # List SP_Bet deployments on sepolia
  spdeploy list -n sepolia --contract SP_Bet

  # List proxy deployments only
  spdeploy list --type proxy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var deploymentType models.DeploymentType
			switch strings.ToLower(deployType) {
			case "":
			case "singleton":
				deploymentType = models.SingletonDeployment
			case "proxy":
				deploymentType = models.ProxyDeployment
			default:
				return fmt.Errorf("invalid deployment type: %s (valid: singleton, proxy)", deployType)
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				ContractName: contractName,
				Type:         deploymentType,
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), !app.Config.NonInteractive).Render(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&deployType, "type", "", "Filter by deployment type (singleton, proxy)")

	return cmd
}
