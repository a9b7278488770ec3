package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// ProjectFile is the project configuration file that marks the project root
const ProjectFile = "spdeploy.toml"

// FindProjectRoot walks up from current directory to find spdeploy.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in an spdeploy project (%s not found)", ProjectFile)
		}
		dir = parent
	}
}

// LoadProjectConfig loads the .env files and parses spdeploy.toml, expanding
// ${VAR} references in RPC URLs and account keys
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	if err := loadEnvFiles(projectRoot); err != nil {
		return nil, err
	}

	path := filepath.Join(projectRoot, ProjectFile)
	var cfg config.ProjectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	var problems *multierror.Error

	for name, network := range cfg.Networks {
		expanded, missing := rpcURLFor(name, network.RPCURL)
		if len(missing) > 0 {
			problems = multierror.Append(problems,
				fmt.Errorf("network %s: rpc_url references unset variable(s) %s", name, strings.Join(missing, ", ")))
		}
		network.RPCURL = expanded
		cfg.Networks[name] = network
	}

	// Unset key variables only matter once the account is used, so they are
	// left empty here and reported by the account resolver.
	for name, account := range cfg.Accounts {
		account.PrivateKey, _ = expandEnv(account.PrivateKey)
		for network, key := range account.Networks {
			account.Networks[network], _ = expandEnv(key)
		}
		cfg.Accounts[name] = account
	}

	if err := ValidateProjectConfig(&cfg); err != nil {
		problems = multierror.Append(problems, err)
	}
	if err := problems.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}

	return &cfg, nil
}

// ValidateProjectConfig reports every structural problem in the configuration
func ValidateProjectConfig(cfg *config.ProjectConfig) error {
	var result *multierror.Error

	networkNames := lo.Keys(cfg.Networks)
	sort.Strings(networkNames)
	for _, name := range networkNames {
		network := cfg.Networks[name]
		if network.RPCURL == "" {
			result = multierror.Append(result, fmt.Errorf("network %s: rpc_url is required", name))
			continue
		}
		u, err := url.Parse(network.RPCURL)
		if err != nil || !lo.Contains([]string{"http", "https", "ws", "wss"}, u.Scheme) {
			result = multierror.Append(result, fmt.Errorf("network %s: rpc_url must be an http(s) or ws(s) URL", name))
		}
	}

	accountNames := lo.Keys(cfg.Accounts)
	sort.Strings(accountNames)
	for _, name := range accountNames {
		account := cfg.Accounts[name]
		if account.Address != "" && !common.IsHexAddress(account.Address) {
			result = multierror.Append(result, fmt.Errorf("account %s: address %q is not a hex address", name, account.Address))
		}
		for network := range account.Networks {
			if _, ok := cfg.Networks[network]; !ok {
				result = multierror.Append(result, fmt.Errorf("account %s: key override for unknown network %s", name, network))
			}
		}
	}

	if cfg.DefaultNetwork != "" {
		if _, ok := cfg.Networks[cfg.DefaultNetwork]; !ok {
			result = multierror.Append(result, fmt.Errorf("default_network %s is not configured", cfg.DefaultNetwork))
		}
	}

	if cfg.Proxy.Kind != "" && !models.ProxyKind(cfg.Proxy.Kind).Valid() {
		result = multierror.Append(result, fmt.Errorf("proxy.kind %q must be %s or %s",
			cfg.Proxy.Kind, models.ProxyKindTransparent, models.ProxyKindUUPS))
	}

	return result.ErrorOrNil()
}
