package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// DeployProxyParams contains parameters for a proxy deployment
type DeployProxyParams struct {
	Contract        string
	Companions      []string // factories resolved alongside Contract but not deployed
	Kind            models.ProxyKind
	Initializer     string
	InitializerArgs []string
	NoInitializer   bool
	Account         string // signer, defaults to "deployer"
	Owner           string // named account owning the proxy admin, defaults to the signer
	Reset           bool   // replace a non-proxy deployment recorded under Contract
}

// DeployProxyResult contains the result of a proxy deployment
type DeployProxyResult struct {
	Network        *config.Network
	ChainID        uint64
	Deployer       *models.Account
	Kind           models.ProxyKind
	Companions     []*models.Artifact
	Implementation *models.Deployment
	Proxy          *models.Deployment
}

// DeployProxy deploys a contract behind an upgradeable proxy and waits for
// the proxy to be mined
type DeployProxy struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	accounts  AccountResolver
	deployer  ContractDeployer
	repo      DeploymentRepository
	selector  ArtifactSelector
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployProxy creates a new DeployProxy use case
func NewDeployProxy(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	accounts AccountResolver,
	deployer ContractDeployer,
	repo DeploymentRepository,
	selector ArtifactSelector,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployProxy {
	return &DeployProxy{
		config:    cfg,
		artifacts: artifacts,
		accounts:  accounts,
		deployer:  deployer,
		repo:      repo,
		selector:  selector,
		confirmer: confirmer,
		sink:      sink,
		log:       log.With("component", "DeployProxy"),
	}
}

// Run executes the proxy deployment
func (uc *DeployProxy) Run(ctx context.Context, params DeployProxyParams) (*DeployProxyResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	if params.Contract == "" {
		return nil, fmt.Errorf("no contract given")
	}

	kind, err := uc.proxyKind(params.Kind)
	if err != nil {
		return nil, err
	}

	implementation, err := resolveArtifact(ctx, uc.config, uc.artifacts, uc.selector, uc.sink, params.Contract)
	if err != nil {
		return nil, err
	}

	companions := make([]*models.Artifact, 0, len(params.Companions))
	for _, name := range params.Companions {
		artifact, err := resolveArtifact(ctx, uc.config, uc.artifacts, uc.selector, uc.sink, name)
		if err != nil {
			return nil, err
		}
		uc.log.Debug("resolved companion factory", "contract", artifact.FullyQualifiedName())
		companions = append(companions, artifact)
	}

	proxyArtifact, err := resolveArtifact(ctx, uc.config, uc.artifacts, uc.selector, uc.sink, uc.proxyArtifactName(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s proxy artifact: %w", kind, err)
	}

	chainID, err := uc.deployer.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	if err := uc.repo.CheckChainID(ctx, network.Name, chainID); err != nil {
		return nil, err
	}
	if !params.Reset {
		if err := uc.checkRecorded(ctx, network, params.Contract); err != nil {
			return nil, err
		}
	}

	accountName := lo.Ternary(params.Account != "", params.Account, config.DefaultDeployerAccount)
	account, err := uc.accounts.ResolveAccount(ctx, accountName, network)
	if err != nil {
		return nil, err
	}

	owner, err := uc.resolveOwner(ctx, network, account, params.Owner)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Deploy %s behind a %s proxy on %s (chain %d) from %s", params.Contract, kind, network.Name, chainID, account.Address.Hex())
	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, prompt); err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Deploying %s behind %s proxy", params.Contract, kind),
		Spinner: true,
	})

	res, err := uc.deployer.DeployProxy(ctx, ProxyDeployRequest{
		Name:            params.Contract,
		Implementation:  implementation,
		Proxy:           proxyArtifact,
		Kind:            kind,
		Initializer:     params.Initializer,
		InitializerArgs: params.InitializerArgs,
		NoInitializer:   params.NoInitializer,
		Owner:           owner,
		From:            account,
	})

	now := time.Now().UTC()
	implName := params.Contract + "_Implementation"

	var implDeployment *models.Deployment
	if res != nil && res.Implementation != nil {
		uc.sink.Info(fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
			implName, res.Implementation.TxHash.Hex(), res.Implementation.Address.Hex(), res.Implementation.GasUsed))
		implDeployment = newDeployment(implName, network, chainID, implementation, res.Implementation, now)
		implDeployment.Args = []string{}
	}

	if err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
		// the implementation is on chain, keep it so a retry can see it
		if implDeployment != nil {
			if saveErr := uc.repo.SaveDeployment(ctx, implDeployment); saveErr != nil {
				uc.log.Error("failed to record implementation", "name", implName, "address", implDeployment.Address, "error", saveErr)
			}
		}
		return nil, fmt.Errorf("failed to deploy %s proxy: %w", params.Contract, err)
	}

	uc.sink.Info(fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
		params.Contract+"_Proxy", res.Proxy.TxHash.Hex(), res.Proxy.Address.Hex(), res.Proxy.GasUsed))

	proxyDeployment := newDeployment(params.Contract, network, chainID, implementation, res.Proxy, now)
	proxyDeployment.Type = models.ProxyDeployment
	proxyDeployment.ProxyKind = kind
	proxyDeployment.Implementation = res.Implementation.Address.Hex()
	proxyDeployment.Bytecode = hexutil.Encode(proxyArtifact.Bytecode)
	proxyDeployment.Args = lo.Map(res.Proxy.Args, func(arg any, _ int) string { return formatArg(arg) })

	for _, dep := range []*models.Deployment{implDeployment, proxyDeployment} {
		if err := uc.repo.SaveDeployment(ctx, dep); err != nil {
			return nil, fmt.Errorf("deployed %s at %s but failed to record it: %w", dep.Name, dep.Address, err)
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageComplete, Message: "Proxy deployed"})

	return &DeployProxyResult{
		Network:        network,
		ChainID:        chainID,
		Deployer:       account,
		Kind:           kind,
		Companions:     companions,
		Implementation: implDeployment,
		Proxy:          proxyDeployment,
	}, nil
}

// checkRecorded refuses to replace a non-proxy deployment recorded under name
func (uc *DeployProxy) checkRecorded(ctx context.Context, network *config.Network, name string) error {
	existing, err := uc.repo.GetDeployment(ctx, network.Name, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.IsProxy() {
		return nil
	}
	return &domain.DeploymentConflictError{
		Network:  network.Name,
		Name:     name,
		Recorded: existing.Type,
		Address:  existing.Address,
	}
}

func (uc *DeployProxy) proxyKind(kind models.ProxyKind) (models.ProxyKind, error) {
	if kind == "" && uc.config.Project != nil {
		kind = models.ProxyKind(uc.config.Project.Proxy.Kind)
	}
	if kind == "" {
		kind = models.ProxyKindTransparent
	}
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported proxy kind %q (expected %s or %s)", kind, models.ProxyKindTransparent, models.ProxyKindUUPS)
	}
	return kind, nil
}

func (uc *DeployProxy) proxyArtifactName(kind models.ProxyKind) string {
	var proxyCfg config.ProxyConfig
	if uc.config.Project != nil {
		proxyCfg = uc.config.Project.Proxy
	}
	if kind == models.ProxyKindUUPS {
		return lo.Ternary(proxyCfg.UUPSArtifact != "", proxyCfg.UUPSArtifact, config.DefaultUUPSProxyArtifact)
	}
	return lo.Ternary(proxyCfg.TransparentArtifact != "", proxyCfg.TransparentArtifact, config.DefaultTransparentProxyArtifact)
}

// resolveOwner picks the initial proxy owner: the explicit param, then the
// [proxy] owner setting, then the signer itself
func (uc *DeployProxy) resolveOwner(ctx context.Context, network *config.Network, signer *models.Account, name string) (common.Address, error) {
	if name == "" && uc.config.Project != nil {
		name = uc.config.Project.Proxy.Owner
	}
	if name == "" || name == signer.Name {
		return signer.Address, nil
	}
	if common.IsHexAddress(name) {
		return common.HexToAddress(name), nil
	}
	owner, err := uc.accounts.ResolveAccount(ctx, name, network)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to resolve proxy owner: %w", err)
	}
	return owner.Address, nil
}

func newDeployment(name string, network *config.Network, chainID uint64, artifact *models.Artifact, res *DeployResult, at time.Time) *models.Deployment {
	return &models.Deployment{
		Name:            name,
		Network:         network.Name,
		ChainID:         chainID,
		Address:         res.Address.Hex(),
		ABI:             artifact.RawABI,
		TransactionHash: res.TxHash.Hex(),
		Receipt: &models.Receipt{
			From:        res.From.Hex(),
			BlockNumber: res.BlockNumber,
			GasUsed:     res.GasUsed,
		},
		Bytecode:     hexutil.Encode(artifact.Bytecode),
		ContractName: artifact.Name,
		SourceName:   artifact.SourceName,
		Type:         models.SingletonDeployment,
		DeployedAt:   at,
	}
}

// formatArg renders a coerced ABI value the way it is stored in the registry
func formatArg(arg any) string {
	switch v := arg.(type) {
	case common.Address:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	default:
		return fmt.Sprint(v)
	}
}
