package adapters

import (
	"github.com/google/wire"
	"github.com/superposition-labs/spdeploy/internal/adapters/accounts"
	"github.com/superposition-labs/spdeploy/internal/adapters/artifacts"
	"github.com/superposition-labs/spdeploy/internal/adapters/blockchain"
	"github.com/superposition-labs/spdeploy/internal/adapters/interactive"
	"github.com/superposition-labs/spdeploy/internal/adapters/repository/deployments"
	"github.com/superposition-labs/spdeploy/internal/adapters/scripts"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	artifacts.NewIndexer,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Indexer)),

	scripts.NewLoader,
	wire.Bind(new(usecase.ScriptRepository), new(*scripts.Loader)),
)

// AccountSet resolves named accounts into signers
var AccountSet = wire.NewSet(
	accounts.NewResolver,
	wire.Bind(new(usecase.AccountResolver), new(*accounts.Resolver)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ArtifactSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	AccountSet,
	InteractiveSet,
	BlockchainSet,
)
