package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrContractNotFound is returned when no artifact matches a contract name
	ErrContractNotFound = errors.New("contract not found")

	// ErrAmbiguousContract is returned when several artifacts match a contract name
	ErrAmbiguousContract = errors.New("ambiguous contract")

	// ErrNetworkNotFound is returned when a network is not configured
	ErrNetworkNotFound = errors.New("network not found")

	// ErrNoNetwork is returned when a command needs a network and none was selected
	ErrNoNetwork = errors.New("no network selected")

	// ErrAccountNotFound is returned when a named account is not configured
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidPrivateKey is returned when an account key can't be parsed
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidArguments is returned when constructor or initializer arguments don't match the ABI
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrChainIDMismatch is returned when the RPC endpoint serves a different chain than expected
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrTransactionReverted is returned when a deployment transaction is mined with a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrNoCodeAfterDeploy is returned when a mined deployment left no code at the contract address
	ErrNoCodeAfterDeploy = errors.New("no contract code after deployment")

	// ErrInitializerNotFound is returned when a requested proxy initializer is not in the ABI
	ErrInitializerNotFound = errors.New("initializer not found")

	// ErrAborted is returned when the user declines to broadcast
	ErrAborted = errors.New("aborted by user")

	// ErrDeploymentConflict is returned when a deployment name is recorded with another deployment type
	ErrDeploymentConflict = errors.New("deployment conflict")
)

// ContractNotFoundError reports a missing artifact along with close matches.
type ContractNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *ContractNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no artifact found for contract %q", e.Name)
	}
	return fmt.Sprintf("no artifact found for contract %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *ContractNotFoundError) Unwrap() error {
	return ErrContractNotFound
}

// AmbiguousArtifactError is returned when a bare contract name matches artifacts in several sources.
type AmbiguousArtifactError struct {
	Name    string
	Matches []*models.Artifact
}

func (e *AmbiguousArtifactError) Error() string {
	// Sort by fully qualified name for consistent output
	sorted := make([]*models.Artifact, len(e.Matches))
	copy(sorted, e.Matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FullyQualifiedName() < sorted[j].FullyQualifiedName()
	})

	var suggestions []string
	for _, artifact := range sorted {
		suggestions = append(suggestions, fmt.Sprintf("  - %s (%s)", artifact.FullyQualifiedName(), artifact.Path))
	}

	return fmt.Sprintf("multiple artifacts found for contract %q - use path:contract format to disambiguate:\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}

func (e *AmbiguousArtifactError) Unwrap() error {
	return ErrAmbiguousContract
}

// DeploymentConflictError is returned when a registry name already holds a
// deployment of another type, e.g. a proxy where a singleton would be written.
type DeploymentConflictError struct {
	Network  string
	Name     string
	Recorded models.DeploymentType
	Address  string
}

func (e *DeploymentConflictError) Error() string {
	recorded := e.Recorded
	if recorded == "" {
		recorded = models.SingletonDeployment
	}
	return fmt.Sprintf("%s on %s is recorded as a %s deployment at %s, pass --reset to replace it",
		e.Name, e.Network, recorded, e.Address)
}

func (e *DeploymentConflictError) Unwrap() error {
	return ErrDeploymentConflict
}
