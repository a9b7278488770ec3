package scripts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// scriptFile is the layout of a --scripts YAML file
type scriptFile struct {
	Scripts []*domain.DeployScript `yaml:"scripts"`
}

// Loader returns the built-in deploy script plus any scripts declared in YAML files
type Loader struct {
	files []string
	log   *slog.Logger
}

// NewLoader creates a loader for the configured script files
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{
		files: cfg.ScriptFiles,
		log:   log.With("component", "scripts"),
	}
}

// LoadScripts returns every known script. Script names must be unique.
func (l *Loader) LoadScripts(ctx context.Context) ([]*domain.DeployScript, error) {
	scripts := []*domain.DeployScript{domain.DefaultDeployScript()}
	seen := map[string]string{scripts[0].Name: "built-in"}

	var result *multierror.Error
	for _, file := range l.files {
		loaded, err := readScriptFile(file)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		l.log.Debug("loaded deploy scripts", "file", file, "count", len(loaded))

		for _, script := range loaded {
			if err := script.Validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", file, err))
				continue
			}
			if origin, dup := seen[script.Name]; dup {
				result = multierror.Append(result, fmt.Errorf("%s: deploy script %s is already defined in %s", file, script.Name, origin))
				continue
			}
			seen[script.Name] = file
			scripts = append(scripts, script)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return scripts, nil
}

func readScriptFile(path string) ([]*domain.DeployScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy scripts: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file scriptFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return file.Scripts, nil
}

var _ usecase.ScriptRepository = (*Loader)(nil)
