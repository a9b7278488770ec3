package models

import (
	"encoding/json"
	"time"
)

// DeploymentType represents the type of deployment
type DeploymentType string

const (
	SingletonDeployment DeploymentType = "SINGLETON"
	ProxyDeployment     DeploymentType = "PROXY"
)

// ProxyKind is the upgradeable proxy flavour a contract is deployed behind
type ProxyKind string

const (
	ProxyKindTransparent ProxyKind = "transparent"
	ProxyKindUUPS        ProxyKind = "uups"
)

// Valid reports whether the kind is supported
func (k ProxyKind) Valid() bool {
	return k == ProxyKindTransparent || k == ProxyKindUUPS
}

// Deployment is a recorded contract deployment. The JSON layout follows the
// hardhat-deploy files under deployments/<network>/<Name>.json.
type Deployment struct {
	Address         string          `json:"address"`
	ABI             json.RawMessage `json:"abi"`
	TransactionHash string          `json:"transactionHash"`
	Receipt         *Receipt        `json:"receipt,omitempty"`
	Args            []string        `json:"args"`
	Bytecode        string          `json:"bytecode"`
	NumDeployments  int             `json:"numDeployments"`
	ContractName    string          `json:"contractName"`
	SourceName      string          `json:"sourceName,omitempty"`
	Type            DeploymentType  `json:"type"`
	Implementation  string          `json:"implementation,omitempty"`
	ProxyKind       ProxyKind       `json:"proxyKind,omitempty"`
	DeployedAt      time.Time       `json:"deployedAt"`

	// Runtime fields (not persisted)
	Name    string `json:"-"` // file stem, e.g., "SP_Bet_Implementation"
	Network string `json:"-"`
	ChainID uint64 `json:"-"`
}

// Receipt holds the parts of a transaction receipt worth keeping
type Receipt struct {
	From        string `json:"from"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

// IsProxy reports whether the deployment is a proxy
func (d *Deployment) IsProxy() bool {
	return d.Type == ProxyDeployment
}
