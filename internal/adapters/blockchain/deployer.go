package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// DefaultInitializer is called on proxied contracts when no initializer is named
const DefaultInitializer = "initialize"

// Backend is the subset of an RPC client needed to deploy and confirm contracts
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// MineFunc forces the node to produce a block
type MineFunc func(ctx context.Context) error

// Deployer implements usecase.ContractDeployer on top of go-ethereum bindings.
// The RPC connection is opened on first use.
type Deployer struct {
	network *config.Network
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
	mine    MineFunc
	chainID *big.Int
}

// NewDeployer creates a deployer for the configured network
func NewDeployer(cfg *config.RuntimeConfig, log *slog.Logger) *Deployer {
	return &Deployer{
		network: cfg.Network,
		log:     log.With("component", "deployer"),
	}
}

// NewDeployerWithBackend creates a deployer bound to an existing backend.
// mine may be nil when the backend seals blocks on its own.
func NewDeployerWithBackend(network *config.Network, backend Backend, mine MineFunc, log *slog.Logger) *Deployer {
	return &Deployer{
		network: network,
		log:     log.With("component", "deployer"),
		backend: backend,
		mine:    mine,
	}
}

// connect dials the RPC endpoint and verifies the chain ID
func (d *Deployer) connect(ctx context.Context) (Backend, *big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.chainID != nil {
		return d.backend, d.chainID, nil
	}
	if d.network == nil {
		return nil, nil, domain.ErrNoNetwork
	}

	if d.backend == nil {
		client, err := ethclient.DialContext(ctx, d.network.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to RPC %s: %w", d.network.RPCURL, err)
		}
		d.backend = client
		if d.network.AutoMine {
			d.mine = func(ctx context.Context) error {
				return client.Client().CallContext(ctx, nil, "evm_mine")
			}
		}
	}

	chainID, err := d.backend.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if d.network.ChainID != 0 && chainID.Uint64() != d.network.ChainID {
		return nil, nil, fmt.Errorf("%w: network %s expects %d, RPC reports %d",
			domain.ErrChainIDMismatch, d.network.Name, d.network.ChainID, chainID.Uint64())
	}

	d.log.Debug("connected", "network", d.network.Name, "chainId", chainID)
	d.chainID = chainID
	return d.backend, d.chainID, nil
}

// ChainID returns the chain ID reported by the node
func (d *Deployer) ChainID(ctx context.Context) (uint64, error) {
	_, chainID, err := d.connect(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}

// Deploy sends the creation transaction for req.Artifact and waits for it to be mined
func (d *Deployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployResult, error) {
	values, err := CoerceArgs(req.Artifact.ABI.Constructor.Inputs, req.Args)
	if err != nil {
		return nil, fmt.Errorf("%s constructor: %w", req.Artifact.Name, err)
	}
	return d.deploy(ctx, req.Name, req.From, req.Artifact, values)
}

// DeployProxy deploys the implementation, then a proxy pointing at it whose
// constructor runs the initializer. When the proxy fails after the
// implementation was mined, the result carries the implementation alongside
// the error.
func (d *Deployer) DeployProxy(ctx context.Context, req usecase.ProxyDeployRequest) (*usecase.ProxyDeployResult, error) {
	initData, err := encodeInitializer(req)
	if err != nil {
		return nil, err
	}

	var want int
	switch req.Kind {
	case models.ProxyKindTransparent:
		want = 3
	case models.ProxyKindUUPS:
		want = 2
	default:
		return nil, fmt.Errorf("unsupported proxy kind %q", req.Kind)
	}
	if got := len(req.Proxy.ABI.Constructor.Inputs); got != want {
		return nil, fmt.Errorf("%w: %s proxy %s takes %d constructor argument(s), expected %d",
			domain.ErrInvalidArguments, req.Kind, req.Proxy.Name, got, want)
	}

	impl, err := d.deploy(ctx, req.Name+"_Implementation", req.From, req.Implementation, nil)
	if err != nil {
		return nil, err
	}

	values := []any{impl.Address, initData}
	if req.Kind == models.ProxyKindTransparent {
		values = []any{impl.Address, req.Owner, initData}
	}

	result := &usecase.ProxyDeployResult{
		Implementation: impl,
		InitData:       initData,
	}
	result.Proxy, err = d.deploy(ctx, req.Name, req.From, req.Proxy, values)
	if err != nil {
		return result, err
	}
	return result, nil
}

func (d *Deployer) deploy(ctx context.Context, name string, from *models.Account, artifact *models.Artifact, values []any) (*usecase.DeployResult, error) {
	backend, chainID, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}
	if from == nil || from.Key == nil {
		return nil, fmt.Errorf("%w: no signer for %s", domain.ErrAccountNotFound, name)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(from.Key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, backend, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment of %s: %w", name, err)
	}
	d.log.Debug("deployment sent", "name", name, "tx", tx.Hash().Hex(), "address", address.Hex())

	if d.mine != nil {
		if err := d.mine(ctx); err != nil {
			return nil, fmt.Errorf("failed to mine block: %w", err)
		}
	}

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s (tx: %s): %w", name, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s (tx: %s)", domain.ErrTransactionReverted, name, tx.Hash().Hex())
	}

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", domain.ErrNoCodeAfterDeploy, name, address.Hex())
	}

	return &usecase.DeployResult{
		Address:     address,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		From:        from.Address,
		Args:        values,
	}, nil
}

// encodeInitializer builds the calldata run by the proxy constructor.
// The default initializer is optional, a named one is not.
func encodeInitializer(req usecase.ProxyDeployRequest) ([]byte, error) {
	if req.NoInitializer {
		return []byte{}, nil
	}

	name := req.Initializer
	strict := name != ""
	if !strict {
		name = DefaultInitializer
	}

	method, ok := req.Implementation.ABI.Methods[name]
	if !ok {
		if strict {
			return nil, fmt.Errorf("%w: %s has no method %q", domain.ErrInitializerNotFound, req.Implementation.Name, name)
		}
		if len(req.InitializerArgs) > 0 {
			return nil, fmt.Errorf("%w: %s has no %q method to pass initializer arguments to",
				domain.ErrInitializerNotFound, req.Implementation.Name, name)
		}
		return []byte{}, nil
	}

	values, err := CoerceArgs(method.Inputs, req.InitializerArgs)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", req.Implementation.Name, name, err)
	}
	return packMethod(req.Implementation.ABI, name, values)
}

func packMethod(contract abi.ABI, name string, values []any) ([]byte, error) {
	data, err := contract.Pack(name, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return data, nil
}

var (
	_ usecase.ContractDeployer = (*Deployer)(nil)
	_ Backend                  = (*ethclient.Client)(nil)
)
