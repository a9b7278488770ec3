package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(content), 0644))
	return dir
}

func TestFindProjectRoot(t *testing.T) {
	root := writeProject(t, "")
	nested := filepath.Join(root, "contracts", "bet")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	got, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err = filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv("SPDEPLOY_TEST_ALCHEMY_KEY", "k3y")
	t.Setenv("SPDEPLOY_TEST_DEPLOYER_KEY", "0xabc")

	dir := writeProject(t, `
default_network = "localhost"
artifacts = ["artifacts"]
scripts = ["deploy/markets.yaml"]

[networks.localhost]
rpc_url = "http://127.0.0.1:8545"

[networks.sepolia]
rpc_url = "https://eth-sepolia.g.alchemy.com/v2/${SPDEPLOY_TEST_ALCHEMY_KEY}"
chain_id = 11155111

[accounts.deployer]
private_key = "${SPDEPLOY_TEST_DEPLOYER_KEY}"
networks = { sepolia = "${SPDEPLOY_TEST_UNSET_KEY}" }

[proxy]
kind = "uups"
owner = "deployer"
`)

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DefaultNetwork)
	assert.Equal(t, []string{"deploy/markets.yaml"}, cfg.Scripts)
	assert.Equal(t, "https://eth-sepolia.g.alchemy.com/v2/k3y", cfg.Networks["sepolia"].RPCURL)
	assert.Equal(t, uint64(11155111), cfg.Networks["sepolia"].ChainID)
	assert.Equal(t, "0xabc", cfg.Accounts["deployer"].PrivateKey)
	// unset key variables are reported when the account is used
	assert.Equal(t, "", cfg.Accounts["deployer"].Networks["sepolia"])
	assert.Equal(t, "uups", cfg.Proxy.Kind)
}

func TestLoadProjectConfig_DotEnv(t *testing.T) {
	dir := writeProject(t, `
[networks.sepolia]
rpc_url = "${SPDEPLOY_TEST_DOTENV_RPC}"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SPDEPLOY_TEST_DOTENV_RPC=https://rpc.sepolia.org\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("SPDEPLOY_TEST_DOTENV_RPC") })

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.sepolia.org", cfg.Networks["sepolia"].RPCURL)
}

func TestLoadProjectConfig_RPCFallback(t *testing.T) {
	t.Setenv("BASE_SEPOLIA_RPC_URL", "https://sepolia.base.org")
	dir := writeProject(t, `
[networks.base-sepolia]
chain_id = 84532
`)

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://sepolia.base.org", cfg.Networks["base-sepolia"].RPCURL)
}

func TestLoadProjectConfig_Errors(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		_, err := LoadProjectConfig(writeProject(t, "[networks"))
		assert.ErrorContains(t, err, "failed to parse spdeploy.toml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProjectConfig(t.TempDir())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("all problems reported", func(t *testing.T) {
		_, err := LoadProjectConfig(writeProject(t, `
default_network = "mainnet"

[networks.sepolia]
rpc_url = "https://${SPDEPLOY_TEST_NOT_SET}/rpc"

[networks.local]
rpc_url = "127.0.0.1:8545"

[proxy]
kind = "beacon"
`))
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "invalid spdeploy.toml")
		assert.Contains(t, msg, "network sepolia: rpc_url references unset variable(s) SPDEPLOY_TEST_NOT_SET")
		assert.Contains(t, msg, "network local: rpc_url must be an http(s) or ws(s) URL")
		assert.Contains(t, msg, "default_network mainnet is not configured")
		assert.Contains(t, msg, `proxy.kind "beacon" must be transparent or uups`)
	})
}

func TestValidateProjectConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProjectConfig
		wantErr string
	}{
		{
			name: "valid",
			cfg: config.ProjectConfig{
				Networks: map[string]config.NetworkConfig{"localhost": {RPCURL: "ws://127.0.0.1:8546"}},
				Accounts: map[string]config.AccountConfig{"deployer": {Networks: map[string]string{"localhost": "0x01"}}},
			},
		},
		{
			name:    "empty rpc",
			cfg:     config.ProjectConfig{Networks: map[string]config.NetworkConfig{"sepolia": {}}},
			wantErr: "network sepolia: rpc_url is required",
		},
		{
			name:    "bad address",
			cfg:     config.ProjectConfig{Accounts: map[string]config.AccountConfig{"deployer": {Address: "0x12"}}},
			wantErr: `account deployer: address "0x12" is not a hex address`,
		},
		{
			name:    "override for unknown network",
			cfg:     config.ProjectConfig{Accounts: map[string]config.AccountConfig{"deployer": {Networks: map[string]string{"mainnet": "0x01"}}}},
			wantErr: "account deployer: key override for unknown network mainnet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectConfig(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
