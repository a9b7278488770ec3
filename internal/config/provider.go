package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
)

// DataDirName holds local, uncommitted tool state
const DataDirName = ".spdeploy"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		DeploymentsDir: projectPath(projectRoot, lo.Ternary(project.Deployments != "", project.Deployments, config.DefaultDeploymentsDir)),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
		Project:        project,
	}

	artifactPaths := project.Artifacts
	if len(artifactPaths) == 0 {
		artifactPaths = config.DefaultArtifactPaths
	}
	cfg.ArtifactPaths = lo.Map(artifactPaths, func(p string, _ int) string { return projectPath(projectRoot, p) })

	scriptFiles := append(append([]string{}, project.Scripts...), v.GetStringSlice("scripts")...)
	cfg.ScriptFiles = lo.Uniq(lo.Map(scriptFiles, func(p string, _ int) string { return projectPath(projectRoot, p) }))

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = project.DefaultNetwork
	}
	if networkName != "" {
		nc, ok := project.Networks[networkName]
		if !ok {
			known := lo.Keys(project.Networks)
			sort.Strings(known)
			return nil, fmt.Errorf("%w: %s (configured: %s)", domain.ErrNetworkNotFound, networkName, strings.Join(known, ", "))
		}
		cfg.Network = config.ResolveNetwork(networkName, nc)
	}

	return cfg, nil
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("SPDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			panic(err)
		}
	})

	return v
}

func projectPath(projectRoot, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectRoot, p)
}
