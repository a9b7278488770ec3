package usecase_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

var implAddr = common.HexToAddress("0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9")

func transparentArtifact() *models.Artifact {
	return &models.Artifact{Name: "TransparentUpgradeableProxy", RawABI: []byte(`[]`), Bytecode: []byte{0x60, 0x03}}
}

func uupsArtifact() *models.Artifact {
	return &models.Artifact{Name: "ERC1967Proxy", RawABI: []byte(`[]`), Bytecode: []byte{0x60, 0x04}}
}

func newProxyFixture(t *testing.T) *deployFixture {
	t.Helper()
	f := newDeployFixture(t)
	f.scripts.ExpectedCalls = nil
	f.artifacts.On("GetArtifact", mock.Anything, "TransparentUpgradeableProxy").Return(transparentArtifact(), nil)
	f.artifacts.On("GetArtifact", mock.Anything, "ERC1967Proxy").Return(uupsArtifact(), nil)
	f.repo.On("GetDeployment", mock.Anything, "localhost", "SP_Bet").Return(nil, domain.ErrNotFound)
	return f
}

func (f *deployFixture) proxyUseCase() *usecase.DeployProxy {
	return usecase.NewDeployProxy(f.cfg, f.artifacts, f.accounts, f.deployer, f.repo, f.selector, f.selector, f.sink, discardLogger())
}

func proxyResult(args ...any) *usecase.ProxyDeployResult {
	impl := deployResult(implAddr, 2100000)
	proxy := deployResult(proxyAddr, 750000)
	proxy.BlockNumber = 2
	proxy.Args = args
	return &usecase.ProxyDeployResult{Implementation: impl, Proxy: proxy}
}

func betParams() usecase.DeployProxyParams {
	return usecase.DeployProxyParams{Contract: "SP_Bet", Companions: []string{"SuperBetaToken"}}
}

// proxyRequests returns the requests passed to DeployProxy
func proxyRequests(d *MockContractDeployer) []usecase.ProxyDeployRequest {
	var reqs []usecase.ProxyDeployRequest
	for _, call := range d.Calls {
		if call.Method == "DeployProxy" {
			reqs = append(reqs, call.Arguments.Get(1).(usecase.ProxyDeployRequest))
		}
	}
	return reqs
}

// savedDeployments returns the deployments passed to SaveDeployment
func savedDeployments(r *MockDeploymentRepository) []*models.Deployment {
	var saved []*models.Deployment
	for _, call := range r.Calls {
		if call.Method == "SaveDeployment" {
			saved = append(saved, call.Arguments.Get(1).(*models.Deployment))
		}
	}
	return saved
}

func TestDeployProxy_DeploysBetBehindTransparentProxy(t *testing.T) {
	f := newProxyFixture(t)
	f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
	f.deployer.On("DeployProxy", mock.Anything, mock.Anything).
		Return(proxyResult(implAddr, deployerAddr, []byte{}), nil).Once()

	result, err := f.proxyUseCase().Run(t.Context(), betParams())
	require.NoError(t, err)

	reqs := proxyRequests(f.deployer)
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, "SP_Bet", req.Name)
	assert.Equal(t, "SP_Bet", req.Implementation.Name)
	assert.Equal(t, "TransparentUpgradeableProxy", req.Proxy.Name)
	assert.Equal(t, models.ProxyKindTransparent, req.Kind)
	assert.Equal(t, deployerAddr, req.Owner)
	assert.Same(t, f.account, req.From)
	assert.Empty(t, req.Initializer)
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)

	// the companion factory is resolved but never deployed
	require.Len(t, result.Companions, 1)
	assert.Equal(t, "SuperBetaToken", result.Companions[0].Name)

	saved := savedDeployments(f.repo)
	require.Len(t, saved, 2)

	impl := saved[0]
	assert.Equal(t, "SP_Bet_Implementation", impl.Name)
	assert.Equal(t, models.SingletonDeployment, impl.Type)
	assert.Equal(t, implAddr.Hex(), impl.Address)
	assert.Equal(t, []string{}, impl.Args)

	proxy := saved[1]
	assert.Equal(t, "SP_Bet", proxy.Name)
	assert.Equal(t, models.ProxyDeployment, proxy.Type)
	assert.Equal(t, models.ProxyKindTransparent, proxy.ProxyKind)
	assert.Equal(t, proxyAddr.Hex(), proxy.Address)
	assert.Equal(t, implAddr.Hex(), proxy.Implementation)
	assert.Equal(t, "SP_Bet", proxy.ContractName)
	assert.Equal(t, hexutil.Encode(transparentArtifact().Bytecode), proxy.Bytecode)
	assert.Equal(t, []string{implAddr.Hex(), deployerAddr.Hex(), "0x"}, proxy.Args)
	assert.Equal(t, uint64(750000), proxy.Receipt.GasUsed)

	assert.Same(t, proxy, result.Proxy)
	assert.Same(t, impl, result.Implementation)
	assert.Equal(t, []string{
		`deploying "SP_Bet_Implementation" (tx: ` + common.BytesToHash(implAddr.Bytes()).Hex() + `)...: deployed at ` + implAddr.Hex() + ` with 2100000 gas`,
		`deploying "SP_Bet_Proxy" (tx: ` + common.BytesToHash(proxyAddr.Bytes()).Hex() + `)...: deployed at ` + proxyAddr.Hex() + ` with 750000 gas`,
	}, f.sink.Lines)
	assert.Equal(t, []string{usecase.StageDeploying, usecase.StageComplete}, f.sink.Stages())
}

func TestDeployProxy_Kind(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		param      models.ProxyKind
		wantKind   models.ProxyKind
		wantProxy  string
		wantErr    string
	}{
		{name: "default", wantKind: models.ProxyKindTransparent, wantProxy: "TransparentUpgradeableProxy"},
		{name: "from config", configured: "uups", wantKind: models.ProxyKindUUPS, wantProxy: "ERC1967Proxy"},
		{name: "flag wins", configured: "uups", param: models.ProxyKindTransparent, wantKind: models.ProxyKindTransparent, wantProxy: "TransparentUpgradeableProxy"},
		{name: "unknown", param: "beacon", wantErr: `unsupported proxy kind "beacon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProxyFixture(t)
			f.cfg.Project.Proxy.Kind = tt.configured
			f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
			f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(proxyResult(implAddr, []byte{}), nil)

			params := betParams()
			params.Kind = tt.param
			result, err := f.proxyUseCase().Run(t.Context(), params)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				f.deployer.AssertNotCalled(t, "DeployProxy", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, result.Kind)
			req := proxyRequests(f.deployer)[0]
			assert.Equal(t, tt.wantKind, req.Kind)
			assert.Equal(t, tt.wantProxy, req.Proxy.Name)
		})
	}
}

func TestDeployProxy_ConfiguredProxyArtifact(t *testing.T) {
	f := newProxyFixture(t)
	f.cfg.Project.Proxy = config.ProxyConfig{TransparentArtifact: "contracts/proxy/Proxy.sol:MyProxy"}
	custom := &models.Artifact{Name: "MyProxy", Bytecode: []byte{0x60, 0x05}}
	f.artifacts.On("GetArtifact", mock.Anything, "contracts/proxy/Proxy.sol:MyProxy").Return(custom, nil)
	f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
	f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(proxyResult(), nil)

	_, err := f.proxyUseCase().Run(t.Context(), betParams())
	require.NoError(t, err)
	assert.Same(t, custom, proxyRequests(f.deployer)[0].Proxy)
}

func TestDeployProxy_Owner(t *testing.T) {
	admin := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	tests := []struct {
		name       string
		param      string
		configured string
		setup      func(f *deployFixture)
		want       common.Address
	}{
		{name: "signer by default", want: deployerAddr},
		{name: "hex address", param: admin.Hex(), want: admin},
		{
			name:  "named account",
			param: "admin",
			setup: func(f *deployFixture) {
				f.accounts.On("ResolveAccount", mock.Anything, "admin", f.network).Return(&models.Account{Name: "admin", Address: admin}, nil)
			},
			want: admin,
		},
		{
			name:       "from config",
			configured: "admin",
			setup: func(f *deployFixture) {
				f.accounts.On("ResolveAccount", mock.Anything, "admin", f.network).Return(&models.Account{Name: "admin", Address: admin}, nil)
			},
			want: admin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProxyFixture(t)
			f.cfg.Project.Proxy.Owner = tt.configured
			if tt.setup != nil {
				tt.setup(f)
			}
			f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
			f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(proxyResult(), nil)

			params := betParams()
			params.Owner = tt.param
			_, err := f.proxyUseCase().Run(t.Context(), params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, proxyRequests(f.deployer)[0].Owner)
		})
	}
}

func TestDeployProxy_PassesInitializer(t *testing.T) {
	f := newProxyFixture(t)
	f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
	f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(proxyResult(), nil)

	params := betParams()
	params.Initializer = "initialize"
	params.InitializerArgs = []string{"100"}
	_, err := f.proxyUseCase().Run(t.Context(), params)
	require.NoError(t, err)

	req := proxyRequests(f.deployer)[0]
	assert.Equal(t, "initialize", req.Initializer)
	assert.Equal(t, []string{"100"}, req.InitializerArgs)
	assert.False(t, req.NoInitializer)
}

func TestDeployProxy_Failures(t *testing.T) {
	t.Run("missing companion", func(t *testing.T) {
		f := newProxyFixture(t)
		f.artifacts.ExpectedCalls = nil
		f.artifacts.On("GetArtifact", mock.Anything, "SP_Bet").Return(betArtifact(), nil)
		f.artifacts.On("GetArtifact", mock.Anything, "SuperBetaToken").Return(nil, &domain.ContractNotFoundError{Name: "SuperBetaToken"})

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
		f.deployer.AssertNotCalled(t, "ChainID", mock.Anything)
		f.deployer.AssertNotCalled(t, "DeployProxy", mock.Anything, mock.Anything)
	})

	t.Run("missing proxy artifact", func(t *testing.T) {
		f := newProxyFixture(t)
		f.artifacts.ExpectedCalls = nil
		f.artifacts.On("GetArtifact", mock.Anything, "SP_Bet").Return(betArtifact(), nil)
		f.artifacts.On("GetArtifact", mock.Anything, "SuperBetaToken").Return(tokenArtifact(), nil)
		f.artifacts.On("GetArtifact", mock.Anything, "TransparentUpgradeableProxy").Return(nil, &domain.ContractNotFoundError{Name: "TransparentUpgradeableProxy"})

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
		assert.ErrorContains(t, err, "failed to load transparent proxy artifact")
	})

	t.Run("deploy error", func(t *testing.T) {
		f := newProxyFixture(t)
		f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(nil, domain.ErrInitializerNotFound)

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		assert.ErrorIs(t, err, domain.ErrInitializerNotFound)
		f.repo.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
		assert.Equal(t, []string{usecase.StageDeploying, usecase.StageFailed}, f.sink.Stages())
	})

	t.Run("no contract", func(t *testing.T) {
		f := newProxyFixture(t)

		_, err := f.proxyUseCase().Run(t.Context(), usecase.DeployProxyParams{})
		assert.ErrorContains(t, err, "no contract given")
	})

	t.Run("no network", func(t *testing.T) {
		f := newProxyFixture(t)
		f.cfg.Network = nil

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		assert.ErrorIs(t, err, domain.ErrNoNetwork)
	})

	t.Run("live network without confirmation", func(t *testing.T) {
		f := newProxyFixture(t)
		f.network.Live = true
		f.cfg.NonInteractive = true

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		assert.ErrorIs(t, err, domain.ErrAborted)
		f.deployer.AssertNotCalled(t, "DeployProxy", mock.Anything, mock.Anything)
	})
}

func TestDeployProxy_RecordsImplementationWhenProxyFails(t *testing.T) {
	f := newProxyFixture(t)
	f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)

	partial := proxyResult()
	partial.Proxy = nil
	f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(partial, domain.ErrTransactionReverted).Once()

	result, err := f.proxyUseCase().Run(t.Context(), betParams())
	require.ErrorIs(t, err, domain.ErrTransactionReverted)
	assert.Nil(t, result)

	saved := savedDeployments(f.repo)
	require.Len(t, saved, 1)
	assert.Equal(t, "SP_Bet_Implementation", saved[0].Name)
	assert.Equal(t, implAddr.Hex(), saved[0].Address)
	assert.Equal(t, models.SingletonDeployment, saved[0].Type)

	assert.Len(t, f.sink.Lines, 1)
	assert.Equal(t, []string{usecase.StageDeploying, usecase.StageFailed}, f.sink.Stages())
}

func TestDeployProxy_RecordedSingleton(t *testing.T) {
	singleton := &models.Deployment{Name: "SP_Bet", Address: betAddr.Hex(), Type: models.SingletonDeployment}

	t.Run("refused without reset", func(t *testing.T) {
		f := newProxyFixture(t)
		f.repo.ExpectedCalls = nil
		f.repo.On("CheckChainID", mock.Anything, "localhost", uint64(31337)).Return(nil)
		f.repo.On("GetDeployment", mock.Anything, "localhost", "SP_Bet").Return(singleton, nil)

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		require.ErrorIs(t, err, domain.ErrDeploymentConflict)
		assert.ErrorContains(t, err, "SP_Bet on localhost is recorded as a SINGLETON deployment at "+betAddr.Hex()+", pass --reset")
		f.deployer.AssertNotCalled(t, "DeployProxy", mock.Anything, mock.Anything)
	})

	t.Run("replaced with reset", func(t *testing.T) {
		f := newProxyFixture(t)
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
		f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(proxyResult(), nil).Once()

		params := betParams()
		params.Reset = true
		_, err := f.proxyUseCase().Run(t.Context(), params)
		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "GetDeployment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recorded proxy is replaced", func(t *testing.T) {
		f := newProxyFixture(t)
		f.repo.ExpectedCalls = nil
		f.repo.On("CheckChainID", mock.Anything, "localhost", uint64(31337)).Return(nil)
		f.repo.On("GetDeployment", mock.Anything, "localhost", "SP_Bet").
			Return(&models.Deployment{Name: "SP_Bet", Address: proxyAddr.Hex(), Type: models.ProxyDeployment}, nil)
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)
		f.deployer.On("DeployProxy", mock.Anything, mock.Anything).Return(proxyResult(), nil).Once()

		_, err := f.proxyUseCase().Run(t.Context(), betParams())
		require.NoError(t, err)
	})
}
