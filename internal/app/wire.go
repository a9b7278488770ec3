//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/superposition-labs/spdeploy/internal/adapters"
	"github.com/superposition-labs/spdeploy/internal/config"
	"github.com/superposition-labs/spdeploy/internal/logging"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContracts,
		usecase.NewDeployProxy,
		usecase.NewListDeployments,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
