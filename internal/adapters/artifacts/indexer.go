package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

const maxSuggestions = 3

// Indexer discovers Hardhat and Foundry artifacts and indexes them by
// contract name. Indexing happens once, on first lookup.
type Indexer struct {
	paths []string
	log   *slog.Logger

	once      sync.Once
	indexErr  error
	mu        sync.RWMutex
	byName    map[string][]*models.Artifact // key: contract name
	artifacts []*models.Artifact
}

// NewIndexer creates a new artifact indexer over the configured artifact paths
func NewIndexer(cfg *config.RuntimeConfig, log *slog.Logger) *Indexer {
	return &Indexer{
		paths:  cfg.ArtifactPaths,
		log:    log.With("component", "ArtifactIndexer"),
		byName: make(map[string][]*models.Artifact),
	}
}

// GetArtifact looks up an artifact by "Name" or "path/File.sol:Name"
func (i *Indexer) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	contractName := name
	sourceName := ""
	if idx := strings.LastIndex(name, ":"); idx != -1 {
		sourceName, contractName = name[:idx], name[idx+1:]
	}

	matches := i.byName[contractName]
	if sourceName != "" {
		matches = lo.Filter(matches, func(a *models.Artifact, _ int) bool {
			return a.SourceName == sourceName || strings.HasSuffix(a.SourceName, "/"+sourceName)
		})
	}

	switch len(matches) {
	case 0:
		return nil, &domain.ContractNotFoundError{Name: name, Suggestions: i.suggest(contractName)}
	case 1:
		return matches[0], nil
	default:
		return nil, &domain.AmbiguousArtifactError{Name: name, Matches: matches}
	}
}

// ListArtifacts returns every indexed artifact sorted by fully qualified name
func (i *Indexer) ListArtifacts(ctx context.Context) ([]*models.Artifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	return append([]*models.Artifact(nil), i.artifacts...), nil
}

// suggest returns the contract names closest to name
func (i *Indexer) suggest(name string) []string {
	names := lo.Keys(i.byName)
	sort.Strings(names)
	matches := fuzzy.Find(name, names)
	return lo.Map(lo.Slice(matches, 0, maxSuggestions), func(m fuzzy.Match, _ int) string { return m.Str })
}

func (i *Indexer) ensureIndexed() error {
	i.once.Do(func() {
		i.indexErr = i.index()
	})
	return i.indexErr
}

// index walks every artifact path. Missing directories are skipped, so a
// Hardhat-only project does not need an out/ directory.
func (i *Indexer) index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	found := false
	for _, root := range i.paths {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		found = true

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" || d.Name() == "cache" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}

			artifact, err := parseArtifact(path)
			if err != nil {
				i.log.Debug("skipping artifact", "path", path, "reason", err)
				return nil
			}
			if artifact == nil {
				return nil
			}
			i.byName[artifact.Name] = append(i.byName[artifact.Name], artifact)
			i.artifacts = append(i.artifacts, artifact)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to index artifacts in %s: %w", root, err)
		}
	}

	if !found {
		return fmt.Errorf("no artifact directory found (looked in %s), compile the contracts first", strings.Join(i.paths, ", "))
	}

	sort.Slice(i.artifacts, func(a, b int) bool {
		return i.artifacts[a].FullyQualifiedName() < i.artifacts[b].FullyQualifiedName()
	})
	i.log.Debug("indexed artifacts", "count", len(i.artifacts))
	return nil
}

// rawArtifact covers both the Hardhat and the Foundry artifact layouts
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

// compilationTarget extracts metadata.settings.compilationTarget from a
// Foundry artifact, if present
func (r rawArtifact) compilationTarget() map[string]string {
	var metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	}
	if len(r.Metadata) == 0 || json.Unmarshal(r.Metadata, &metadata) != nil {
		return nil
	}
	return metadata.Settings.CompilationTarget
}

// parseArtifact reads an artifact file. It returns nil without error for
// JSON files that are not deployable artifacts (interfaces, abstract
// contracts, unrelated JSON).
func parseArtifact(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // walking the project's own artifact dirs
	if err != nil {
		return nil, err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	if len(raw.ABI) == 0 || len(raw.Bytecode) == 0 {
		return nil, nil
	}

	artifact := &models.Artifact{Path: path, RawABI: raw.ABI}

	var code string
	if bytes.HasPrefix(bytes.TrimSpace(raw.Bytecode), []byte(`"`)) {
		artifact.Format = models.ArtifactFormatHardhat
		if err := json.Unmarshal(raw.Bytecode, &code); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
		artifact.Name = raw.ContractName
		artifact.SourceName = raw.SourceName
	} else {
		artifact.Format = models.ArtifactFormatFoundry
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw.Bytecode, &obj); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
		code = obj.Object
		artifact.Name = strings.TrimSuffix(filepath.Base(path), ".json")
		artifact.SourceName = filepath.Base(filepath.Dir(path))
		for source, contract := range raw.compilationTarget() {
			if contract == artifact.Name {
				artifact.SourceName = source
			}
		}
	}

	if artifact.Name == "" {
		return nil, nil
	}

	code = strings.TrimSpace(code)
	if code == "" || code == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("bytecode has unlinked libraries")
	}
	artifact.Bytecode, err = hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}

	artifact.ABI, err = abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}

	return artifact, nil
}

var _ usecase.ArtifactRepository = (*Indexer)(nil)
