package models

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
)

// Artifact is a compiled contract ready to be deployed. It plays the role of
// a contract factory: ABI plus creation bytecode.
type Artifact struct {
	Name       string         // e.g., "SP_Bet"
	SourceName string         // e.g., "contracts/SP_Bet.sol"
	Path       string         // artifact file on disk
	Format     ArtifactFormat // hardhat or foundry
	ABI        abi.ABI
	RawABI     json.RawMessage
	Bytecode   []byte // creation code
}

// FullyQualifiedName returns "sourceName:Name", or just the name when the source is unknown
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.Name
	}
	return fmt.Sprintf("%s:%s", a.SourceName, a.Name)
}

// HasMethod reports whether the ABI declares a method with the given name
func (a *Artifact) HasMethod(name string) bool {
	_, ok := a.ABI.Methods[name]
	return ok
}
