package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	DataDir        string
	DeploymentsDir string
	ArtifactPaths  []string
	ScriptFiles    []string

	// Context settings
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	Timeout        time.Duration

	// Resolved configurations
	Project *ProjectConfig
}

// Network represents a resolved network
type Network struct {
	Name     string `json:"name"`
	RPCURL   string `json:"rpcUrl"`
	ChainID  uint64 `json:"chainId"` // 0 when not configured, learned from the RPC
	AutoMine bool   `json:"autoMine"`
	Live     bool   `json:"live"`
}
