package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, arbitrum-sepolia -> ARBITRUM_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	return strings.ToUpper(nonAlnum.ReplaceAllString(networkName, "_")) + "_RPC_URL"
}

// rpcURLFor expands the configured rpc_url. A network without one falls back
// to the conventional <NAME>_RPC_URL variable.
func rpcURLFor(name, raw string) (string, []string) {
	if raw == "" {
		return os.Getenv(GenerateEnvVarName(name)), nil
	}
	return expandEnv(raw)
}

// expandEnv expands $VAR and ${VAR} references and reports the variables that
// are not set
func expandEnv(value string) (string, []string) {
	var missing []string
	expanded := os.Expand(value, func(name string) string {
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return v
	})
	return expanded, missing
}

// loadEnvFiles loads .env.local and .env from the project root. godotenv
// never overrides a variable that is already set, so the process environment
// wins over .env.local, which wins over .env.
func loadEnvFiles(projectRoot string) error {
	for _, name := range []string{".env.local", ".env"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}
