package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	// GetArtifact looks up an artifact by "Name" or "path/File.sol:Name"
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
	ListArtifacts(ctx context.Context) ([]*models.Artifact, error)
}

// AccountResolver resolves named accounts into signers
type AccountResolver interface {
	ResolveAccount(ctx context.Context, name string, network *config.Network) (*models.Account, error)
}

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, network, name string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter DeploymentFilter) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	// CheckChainID fails if the network's recorded chain differs from chainID
	CheckChainID(ctx context.Context, network string, chainID uint64) error
}

// ScriptRepository loads the deploy scripts known to the project
type ScriptRepository interface {
	LoadScripts(ctx context.Context) ([]*domain.DeployScript, error)
}

// ContractDeployer sends deployment transactions and blocks until they are mined
type ContractDeployer interface {
	ChainID(ctx context.Context) (uint64, error)
	Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error)
	// DeployProxy returns a result with only Implementation set, plus the
	// error, when the proxy fails after the implementation was mined
	DeployProxy(ctx context.Context, req ProxyDeployRequest) (*ProxyDeployResult, error)
}

// ArtifactSelector handles interactive disambiguation of artifacts
type ArtifactSelector interface {
	SelectArtifact(ctx context.Context, artifacts []*models.Artifact, prompt string) (*models.Artifact, error)
}

// Confirmer asks the user before broadcasting
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeploymentFilter narrows ListDeployments
type DeploymentFilter struct {
	Network      string
	ContractName string
	Type         models.DeploymentType
}

// DeployRequest describes a single contract creation
type DeployRequest struct {
	Name     string
	Artifact *models.Artifact
	Args     []string
	From     *models.Account
}

// DeployResult is the outcome of a mined contract creation
type DeployResult struct {
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	From        common.Address
	Args        []any // the coerced constructor arguments
}

// ProxyDeployRequest describes an implementation plus upgradeable proxy deployment
type ProxyDeployRequest struct {
	Name           string
	Implementation *models.Artifact
	Proxy          *models.Artifact
	Kind           models.ProxyKind
	// Initializer defaults to "initialize" and is skipped when the ABI lacks it.
	// A non-empty value must exist in the ABI.
	Initializer     string
	InitializerArgs []string
	NoInitializer   bool
	Owner           common.Address // initial owner for transparent proxies
	From            *models.Account
}

// ProxyDeployResult is the outcome of a proxy deployment
type ProxyDeployResult struct {
	Implementation *DeployResult
	Proxy          *DeployResult
	InitData       []byte
}

// Progress tracking interfaces

// Progress stages reported by the use cases
const (
	StageLoading   = "loading"
	StageDeploying = "deploying"
	StageSelecting = "selecting"
	StageFailed    = "failed"
	StageComplete  = "complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
