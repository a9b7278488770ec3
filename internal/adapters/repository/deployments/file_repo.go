package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

const (
	ChainIDFile   = ".chainId"
	fileExtension = ".json"
)

// FileRepository stores deployments as deployments/<network>/<Name>.json
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at rootDir
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: rootDir}
}

// NewFileRepositoryFromConfig creates a repository at the configured deployments directory
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.DeploymentsDir)
}

// GetDeployment reads a single deployment
func (r *FileRepository) GetDeployment(ctx context.Context, network, name string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chainID, err := r.readChainID(network)
	if err != nil {
		return nil, err
	}
	return r.loadFile(network, name, chainID)
}

// ListDeployments returns all deployments matching filter, sorted by network and name
func (r *FileRepository) ListDeployments(ctx context.Context, filter usecase.DeploymentFilter) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	networks, err := r.networks()
	if err != nil {
		return nil, err
	}

	var results []*models.Deployment
	for _, network := range networks {
		if filter.Network != "" && filter.Network != network {
			continue
		}

		chainID, err := r.readChainID(network)
		if err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(filepath.Join(r.rootDir, network))
		if err != nil {
			return nil, fmt.Errorf("failed to read deployments for %s: %w", network, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExtension) {
				continue
			}

			dep, err := r.loadFile(network, strings.TrimSuffix(entry.Name(), fileExtension), chainID)
			if err != nil {
				return nil, err
			}
			if filter.ContractName != "" && !strings.EqualFold(dep.ContractName, filter.ContractName) {
				continue
			}
			if filter.Type != "" && dep.Type != filter.Type {
				continue
			}
			results = append(results, dep)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Network != results[j].Network {
			return results[i].Network < results[j].Network
		}
		return results[i].Name < results[j].Name
	})

	return results, nil
}

// SaveDeployment writes a deployment, bumping numDeployments when one already exists
func (r *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.Network == "" || deployment.Name == "" {
		return fmt.Errorf("deployment must have a network and a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureChainID(deployment.Network, deployment.ChainID); err != nil {
		return err
	}

	deployment.NumDeployments = 1
	if prev, err := r.loadFile(deployment.Network, deployment.Name, deployment.ChainID); err == nil {
		deployment.NumDeployments = prev.NumDeployments + 1
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	return r.saveFile(r.deploymentPath(deployment.Network, deployment.Name), deployment)
}

// CheckChainID fails when the network directory was created for another chain
func (r *FileRepository) CheckChainID(ctx context.Context, network string, chainID uint64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recorded, err := r.readChainID(network)
	if err != nil {
		return err
	}
	if recorded != 0 && recorded != chainID {
		return fmt.Errorf("%w: deployments/%s was recorded on chain %d, connected to chain %d",
			domain.ErrChainIDMismatch, network, recorded, chainID)
	}
	return nil
}

func (r *FileRepository) deploymentPath(network, name string) string {
	return filepath.Join(r.rootDir, network, name+fileExtension)
}

// networks lists the network directories in sorted order
func (r *FileRepository) networks() ([]string, error) {
	entries, err := os.ReadDir(r.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deployments directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// readChainID returns 0 when the network has no .chainId yet
func (r *FileRepository) readChainID(network string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(r.rootDir, network, ChainIDFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read chain id for %s: %w", network, err)
	}

	id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s for %s: %w", ChainIDFile, network, err)
	}
	return id, nil
}

func (r *FileRepository) ensureChainID(network string, chainID uint64) error {
	recorded, err := r.readChainID(network)
	if err != nil {
		return err
	}
	if recorded != 0 {
		if recorded != chainID {
			return fmt.Errorf("%w: deployments/%s was recorded on chain %d, not %d",
				domain.ErrChainIDMismatch, network, recorded, chainID)
		}
		return nil
	}

	dir := filepath.Join(r.rootDir, network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return writeAtomic(filepath.Join(dir, ChainIDFile), []byte(strconv.FormatUint(chainID, 10)))
}

// loadFile reads deployments/<network>/<name>.json
func (r *FileRepository) loadFile(network, name string, chainID uint64) (*models.Deployment, error) {
	data, err := os.ReadFile(r.deploymentPath(network, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: deployment %s on %s", domain.ErrNotFound, name, network)
		}
		return nil, err
	}

	var dep models.Deployment
	if err := json.Unmarshal(data, &dep); err != nil {
		return nil, fmt.Errorf("failed to parse deployments/%s/%s.json: %w", network, name, err)
	}
	dep.Name = name
	dep.Network = network
	dep.ChainID = chainID
	return &dep, nil
}

// saveFile saves data to a JSON file
func (r *FileRepository) saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes to a temp file first and renames it into place
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
