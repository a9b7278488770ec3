package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// DeployContractsParams contains parameters for running deploy scripts
type DeployContractsParams struct {
	Tags    []string
	Account string // named account that signs, defaults to "deployer"
	Reset   bool   // redeploy even when an identical deployment is recorded
}

// DeployedContract is the outcome of one deploy step
type DeployedContract struct {
	Script     string
	Deployment *models.Deployment
	Reused     bool
}

// DeployContractsResult contains the result of a deploy run
type DeployContractsResult struct {
	Network  *config.Network
	ChainID  uint64
	Deployer *models.Account
	Scripts  []string
	Deployed []*DeployedContract
}

// DeployContracts runs deploy scripts step by step. Each step blocks until its
// transaction is mined, and a failing step stops the run before the next one
// is sent.
type DeployContracts struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	accounts  AccountResolver
	deployer  ContractDeployer
	repo      DeploymentRepository
	scripts   ScriptRepository
	selector  ArtifactSelector
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	accounts AccountResolver,
	deployer ContractDeployer,
	repo DeploymentRepository,
	scripts ScriptRepository,
	selector ArtifactSelector,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		config:    cfg,
		artifacts: artifacts,
		accounts:  accounts,
		deployer:  deployer,
		repo:      repo,
		scripts:   scripts,
		selector:  selector,
		confirmer: confirmer,
		sink:      sink,
		log:       log.With("component", "DeployContracts"),
	}
}

// Run executes the deploy scripts matching params.Tags
func (uc *DeployContracts) Run(ctx context.Context, params DeployContractsParams) (*DeployContractsResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	scripts, err := uc.selectScripts(ctx, params.Tags)
	if err != nil {
		return nil, err
	}

	chainID, err := uc.deployer.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	if err := uc.repo.CheckChainID(ctx, network.Name, chainID); err != nil {
		return nil, err
	}

	accountName := lo.Ternary(params.Account != "", params.Account, config.DefaultDeployerAccount)
	account, err := uc.accounts.ResolveAccount(ctx, accountName, network)
	if err != nil {
		return nil, err
	}

	result := &DeployContractsResult{
		Network:  network,
		ChainID:  chainID,
		Deployer: account,
		Scripts:  lo.Map(scripts, func(s *domain.DeployScript, _ int) string { return s.Name }),
	}

	prompt := fmt.Sprintf("Run %s on %s (chain %d) from %s", strings.Join(result.Scripts, ", "), network.Name, chainID, account.Address.Hex())
	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, prompt); err != nil {
		return nil, err
	}

	// addresses of everything deployed or reused during this run
	addresses := make(map[string]string)
	total := lo.SumBy(scripts, func(s *domain.DeployScript) int { return len(s.Steps) })

	for _, script := range scripts {
		uc.log.Debug("running deploy script", "script", script.Name, "steps", len(script.Steps))
		for _, step := range script.Steps {
			uc.sink.OnProgress(ctx, ProgressEvent{
				Stage:   StageDeploying,
				Current: len(result.Deployed) + 1,
				Total:   total,
				Message: fmt.Sprintf("Deploying %s", step.DeploymentName()),
				Spinner: true,
			})

			deployed, err := uc.runStep(ctx, network, chainID, account, step, addresses, params.Reset)
			if err != nil {
				uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
				return result, fmt.Errorf("%s: failed to deploy %s: %w", script.Name, step.DeploymentName(), err)
			}
			deployed.Script = script.Name
			addresses[step.DeploymentName()] = deployed.Deployment.Address
			result.Deployed = append(result.Deployed, deployed)
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageComplete,
		Current: len(result.Deployed),
		Total:   total,
		Message: "Deployment complete",
	})

	return result, nil
}

// selectScripts loads the project scripts, keeps the ones matching tags and
// orders them by name
func (uc *DeployContracts) selectScripts(ctx context.Context, tags []string) ([]*domain.DeployScript, error) {
	all, err := uc.scripts.LoadScripts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deploy scripts: %w", err)
	}

	scripts := lo.Filter(all, func(s *domain.DeployScript, _ int) bool { return s.MatchesTags(tags) })
	if len(scripts) == 0 {
		if len(tags) > 0 {
			return nil, fmt.Errorf("no deploy scripts match tags %s", strings.Join(tags, ","))
		}
		return nil, fmt.Errorf("no deploy scripts found")
	}

	sort.SliceStable(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	return scripts, nil
}

// runStep resolves the step's artifact and arguments, then deploys it or
// reuses an identical recorded deployment
func (uc *DeployContracts) runStep(
	ctx context.Context,
	network *config.Network,
	chainID uint64,
	account *models.Account,
	step domain.DeployStep,
	addresses map[string]string,
	reset bool,
) (*DeployedContract, error) {
	name := step.DeploymentName()

	args, err := uc.resolveArgs(ctx, network, step.Args, addresses)
	if err != nil {
		return nil, err
	}

	artifact, err := resolveArtifact(ctx, uc.config, uc.artifacts, uc.selector, uc.sink, step.Contract)
	if err != nil {
		return nil, err
	}

	if !reset {
		existing, err := uc.repo.GetDeployment(ctx, network.Name, name)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.IsProxy() {
			return nil, &domain.DeploymentConflictError{
				Network:  network.Name,
				Name:     name,
				Recorded: existing.Type,
				Address:  existing.Address,
			}
		}
		if existing != nil && sameDeployment(existing, artifact, args) {
			uc.sink.Info(fmt.Sprintf("reusing %q at %s", name, existing.Address))
			return &DeployedContract{Deployment: existing, Reused: true}, nil
		}
	}

	res, err := uc.deployer.Deploy(ctx, DeployRequest{
		Name:     name,
		Artifact: artifact,
		Args:     args,
		From:     account,
	})
	if err != nil {
		return nil, err
	}

	uc.sink.Info(fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
		name, res.TxHash.Hex(), res.Address.Hex(), res.GasUsed))

	deployment := newDeployment(name, network, chainID, artifact, res, time.Now().UTC())
	deployment.Args = args
	if err := uc.repo.SaveDeployment(ctx, deployment); err != nil {
		return nil, fmt.Errorf("deployed at %s but failed to record it: %w", deployment.Address, err)
	}

	return &DeployedContract{Deployment: deployment}, nil
}

// resolveArgs replaces @Name references with deployment addresses, looking at
// this run first and the registry second
func (uc *DeployContracts) resolveArgs(ctx context.Context, network *config.Network, raw []string, addresses map[string]string) ([]string, error) {
	args := make([]string, 0, len(raw))
	for _, arg := range raw {
		ref, ok := domain.ParseRef(arg)
		if !ok {
			args = append(args, arg)
			continue
		}
		if addr, ok := addresses[ref]; ok {
			args = append(args, addr)
			continue
		}
		dep, err := uc.repo.GetDeployment(ctx, network.Name, ref)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve %s: %w", arg, err)
		}
		args = append(args, dep.Address)
	}
	return args, nil
}

// sameDeployment reports whether a recorded deployment was made from the
// same bytecode with the same constructor arguments
func sameDeployment(existing *models.Deployment, artifact *models.Artifact, args []string) bool {
	if !strings.EqualFold(existing.Bytecode, hexutil.Encode(artifact.Bytecode)) {
		return false
	}
	return slices.EqualFunc(existing.Args, args, strings.EqualFold)
}
