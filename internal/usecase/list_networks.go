package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// NetworkInfo describes one configured network
type NetworkInfo struct {
	Name     string
	RPCURL   string
	ChainID  uint64
	AutoMine bool
	Live     bool
	Active   bool
}

// ListNetworksResult contains the configured networks
type ListNetworksResult struct {
	Networks []NetworkInfo
}

// ListNetworks lists the networks declared in spdeploy.toml
type ListNetworks struct {
	config *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{config: cfg}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	if uc.config.Project == nil {
		return &ListNetworksResult{}, nil
	}

	names := lo.Keys(uc.config.Project.Networks)
	sort.Strings(names)

	result := &ListNetworksResult{}
	for _, name := range names {
		network := config.ResolveNetwork(name, uc.config.Project.Networks[name])
		result.Networks = append(result.Networks, NetworkInfo{
			Name:     network.Name,
			RPCURL:   network.RPCURL,
			ChainID:  network.ChainID,
			AutoMine: network.AutoMine,
			Live:     network.Live,
			Active:   uc.config.Network != nil && uc.config.Network.Name == name,
		})
	}
	return result, nil
}
