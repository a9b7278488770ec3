package cli

import (
	"github.com/spf13/cobra"
	"github.com/superposition-labs/spdeploy/internal/cli/render"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// NewProxyCmd creates the proxy command
func NewProxyCmd() *cobra.Command {
	var (
		contract        string
		companions      []string
		kind            string
		initializer     string
		initializerArgs []string
		noInitializer   bool
		account         string
		owner           string
		reset           bool
	)

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Deploy SP_Bet behind an upgradeable proxy",
		Long: `Deploy a contract behind an upgradeable proxy and wait for confirmation.

The companion factories (SuperBetaToken by default) must be present in the
build output but are not deployed. The implementation is recorded as
<Contract>_Implementation and the proxy as <Contract>.`,
		Example: `  # Transparent proxy for SP_Bet
  spdeploy proxy

  # UUPS proxy, calling initialize(uint256) with 100
  spdeploy proxy --kind uups --init-arg 100

  # Proxy without running an initializer
  spdeploy proxy --no-initializer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployProxy.Run(cmd.Context(), usecase.DeployProxyParams{
				Contract:        contract,
				Companions:      companions,
				Kind:            models.ProxyKind(kind),
				Initializer:     initializer,
				InitializerArgs: initializerArgs,
				NoInitializer:   noInitializer,
				Account:         account,
				Owner:           owner,
				Reset:           reset,
			})
			if err != nil {
				return err
			}

			return render.NewProxyRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "SP_Bet", "Contract to put behind the proxy")
	cmd.Flags().StringSliceVar(&companions, "companion", []string{"SuperBetaToken"}, "Factories that must resolve before deploying")
	cmd.Flags().StringVar(&kind, "kind", "", "Proxy kind: transparent or uups (defaults to [proxy] kind, then transparent)")
	cmd.Flags().StringVar(&initializer, "initializer", "", "Initializer to call through the proxy (default \"initialize\" when present)")
	cmd.Flags().StringArrayVar(&initializerArgs, "init-arg", nil, "Initializer argument, repeat for each parameter")
	cmd.Flags().BoolVar(&noInitializer, "no-initializer", false, "Do not call an initializer")
	cmd.Flags().StringVar(&account, "account", "", "Named account that signs the transactions (default \"deployer\")")
	cmd.Flags().StringVar(&owner, "owner", "", "Named account or address owning a transparent proxy (defaults to the signer)")

	cmd.Flags().BoolVar(&reset, "reset", false, "Replace a non-proxy deployment recorded under the contract name")

	cmd.MarkFlagsMutuallyExclusive("initializer", "no-initializer")
	cmd.MarkFlagsMutuallyExclusive("init-arg", "no-initializer")

	return cmd
}
