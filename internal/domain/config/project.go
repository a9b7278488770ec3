package config

// ProjectConfig represents the spdeploy.toml configuration file
type ProjectConfig struct {
	DefaultNetwork string                   `toml:"default_network,omitempty"`
	Artifacts      []string                 `toml:"artifacts,omitempty"`
	Deployments    string                   `toml:"deployments,omitempty"`
	Scripts        []string                 `toml:"scripts,omitempty"`
	Networks       map[string]NetworkConfig `toml:"networks"`
	Accounts       map[string]AccountConfig `toml:"accounts"`
	Proxy          ProxyConfig              `toml:"proxy"`
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	RPCURL   string `toml:"rpc_url"`
	ChainID  uint64 `toml:"chain_id,omitempty"`
	AutoMine *bool  `toml:"auto_mine,omitempty"`
	Live     *bool  `toml:"live,omitempty"`
}

// AccountConfig represents a named account. PrivateKey and the per-network
// overrides usually hold ${ENV_VAR} references.
type AccountConfig struct {
	PrivateKey string            `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Address    string            `toml:"address,omitempty"`
	Networks   map[string]string `toml:"networks,omitempty"`
}

// ProxyConfig represents the [proxy] section
type ProxyConfig struct {
	Kind                string `toml:"kind,omitempty"`
	Owner               string `toml:"owner,omitempty"` // named account, defaults to the deployer
	TransparentArtifact string `toml:"transparent_artifact,omitempty"`
	UUPSArtifact        string `toml:"uups_artifact,omitempty"`
}

const (
	DefaultDeploymentsDir           = "deployments"
	DefaultTransparentProxyArtifact = "TransparentUpgradeableProxy"
	DefaultUUPSProxyArtifact        = "ERC1967Proxy"
	DefaultDeployerAccount          = "deployer"
)

// DefaultArtifactPaths are the Hardhat and Foundry output directories
var DefaultArtifactPaths = []string{"artifacts", "out"}

// LocalChainIDs are dev chains (hardhat, anvil/ganache) that mine on demand
var LocalChainIDs = map[uint64]bool{
	31337: true,
	1337:  true,
}

// localNetworkNames are network names treated as dev chains when no chain id is configured
var localNetworkNames = map[string]bool{
	"localhost": true,
	"hardhat":   true,
	"anvil":     true,
}

// ResolveNetwork applies defaults to a configured network. Dev chains mine on
// demand and are not live unless configured otherwise.
func ResolveNetwork(name string, nc NetworkConfig) *Network {
	local := LocalChainIDs[nc.ChainID] || (nc.ChainID == 0 && localNetworkNames[name])

	network := &Network{
		Name:     name,
		RPCURL:   nc.RPCURL,
		ChainID:  nc.ChainID,
		AutoMine: local,
		Live:     !local,
	}
	if nc.AutoMine != nil {
		network.AutoMine = *nc.AutoMine
	}
	if nc.Live != nil {
		network.Live = *nc.Live
	}
	return network
}
