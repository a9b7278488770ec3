package cli

import (
	"github.com/spf13/cobra"
	"github.com/superposition-labs/spdeploy/internal/cli/render"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		tags    []string
		account string
		reset   bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run deploy scripts",
		Long: `Run the deploy scripts in name order. Each contract is deployed only after
the previous one has been mined, and the first failure stops the run.

The built-in script 001_deploy_superposition deploys SuperBetaToken and then
SP_Bet with the token address as its constructor argument.`,
		Example: `  # Deploy to the default network
  spdeploy deploy

  # Deploy to sepolia, only scripts tagged SP_Bet
  spdeploy deploy -n sepolia --tags SP_Bet

  # Add scripts from a file and force fresh deployments
  spdeploy deploy --scripts deploy/markets.yaml --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployContracts.Run(cmd.Context(), usecase.DeployContractsParams{
				Tags:    tags,
				Account: account,
				Reset:   reset,
			})
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only run scripts carrying one of these tags")
	cmd.Flags().StringVar(&account, "account", "", "Named account that signs the transactions (default \"deployer\")")
	cmd.Flags().BoolVar(&reset, "reset", false, "Deploy again even when an identical deployment is recorded, replacing recorded proxies")
	cmd.Flags().StringSlice("scripts", nil, "Additional deploy script files (YAML)")

	return cmd
}
