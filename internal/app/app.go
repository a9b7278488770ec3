package app

import (
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	Config *config.RuntimeConfig

	DeployContracts *usecase.DeployContracts
	DeployProxy     *usecase.DeployProxy
	ListDeployments *usecase.ListDeployments
	ListNetworks    *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployContracts *usecase.DeployContracts,
	deployProxy *usecase.DeployProxy,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:          cfg,
		DeployContracts: deployContracts,
		DeployProxy:     deployProxy,
		ListDeployments: listDeployments,
		ListNetworks:    listNetworks,
	}, nil
}
