package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

const (
	tokenAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	implAddr  = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
	proxyAddr = "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
)

func TestDeploymentsRenderer(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &usecase.DeploymentListResult{
		Deployments: []*models.Deployment{
			{Name: "SP_Bet", Network: "localhost", ChainID: 31337, Address: proxyAddr, Type: models.ProxyDeployment,
				Implementation: implAddr, ProxyKind: models.ProxyKindTransparent, NumDeployments: 1, DeployedAt: at},
			{Name: "SP_Bet_Implementation", Network: "localhost", ChainID: 31337, Address: implAddr,
				Type: models.SingletonDeployment, NumDeployments: 1, DeployedAt: at},
			{Name: "SuperBetaToken", Network: "localhost", ChainID: 31337, Address: tokenAddr,
				Type: models.SingletonDeployment, NumDeployments: 2, DeployedAt: at},
		},
		Summary: usecase.DeploymentSummary{Total: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&buf, false).Render(result))
	out := buf.String()

	assert.Contains(t, out, "localhost")
	assert.Contains(t, out, "chain 31337")
	assert.Contains(t, out, "PROXIES")
	assert.Contains(t, out, "IMPLEMENTATIONS")
	assert.Contains(t, out, "SINGLETONS")
	assert.Contains(t, out, "└─ SP_Bet_Implementation (Transparent)")
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "Total deployments: 3")
	assert.NotContains(t, out, "\x1b[")
}

func TestDeploymentsRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&buf, false).Render(&usecase.DeploymentListResult{}))
	assert.Equal(t, "No deployments found\n", buf.String())
}

func TestNetworksRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewNetworksRenderer(&buf, false).Render(&usecase.ListNetworksResult{
		Networks: []usecase.NetworkInfo{
			{Name: "localhost", RPCURL: "http://127.0.0.1:8545", ChainID: 31337, AutoMine: true, Active: true},
			{Name: "sepolia", RPCURL: "https://rpc.sepolia.org", ChainID: 11155111, Live: true},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "local, auto-mine")
	assert.Contains(t, out, "11155111")
	assert.Contains(t, out, "https://rpc.sepolia.org")
}

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestDeployRenderer(t *testing.T) {
	noColor(t)
	deployer := &models.Account{Name: "deployer", Address: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")}
	result := &usecase.DeployContractsResult{
		Network:  &config.Network{Name: "localhost"},
		ChainID:  31337,
		Deployer: deployer,
		Deployed: []*usecase.DeployedContract{
			{Deployment: &models.Deployment{Name: "SuperBetaToken", Address: tokenAddr}, Reused: true},
			{Deployment: &models.Deployment{Name: "SP_Bet", Address: implAddr, Args: []string{tokenAddr}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewDeployRenderer(&buf).Render(result))

	out := buf.String()
	assert.Contains(t, out, "SP_Bet")
	assert.Contains(t, out, "args: "+tokenAddr)
	assert.Contains(t, out, "1 deployed, 1 reused")
	assert.Contains(t, out, deployer.Address.Hex())
}

func TestProxyRenderer(t *testing.T) {
	noColor(t)
	result := &usecase.DeployProxyResult{
		Network:        &config.Network{Name: "localhost"},
		ChainID:        31337,
		Kind:           models.ProxyKindUUPS,
		Companions:     []*models.Artifact{{Name: "SuperBetaToken"}},
		Implementation: &models.Deployment{Name: "SP_Bet_Implementation", Address: implAddr},
		Proxy:          &models.Deployment{Name: "SP_Bet", Address: proxyAddr},
	}

	var buf bytes.Buffer
	require.NoError(t, NewProxyRenderer(&buf).Render(result))

	out := buf.String()
	assert.Contains(t, out, proxyAddr)
	assert.Contains(t, out, implAddr)
	assert.Contains(t, out, "UUPS")
	assert.Contains(t, out, "SuperBetaToken")
	assert.Contains(t, out, "SP_Bet deployed at "+proxyAddr)
}
