package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// resolveArtifact looks up an artifact and, when the name is ambiguous and
// prompts are allowed, lets the user pick one of the matches.
func resolveArtifact(
	ctx context.Context,
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	selector ArtifactSelector,
	sink ProgressSink,
	name string,
) (*models.Artifact, error) {
	artifact, err := artifacts.GetArtifact(ctx, name)
	if err == nil {
		return artifact, nil
	}

	var ambiguous *domain.AmbiguousArtifactError
	if !errors.As(err, &ambiguous) || cfg.NonInteractive || selector == nil {
		return nil, err
	}

	// stop any running spinner before the prompt draws
	sink.OnProgress(ctx, ProgressEvent{Stage: StageSelecting, Message: fmt.Sprintf("Selecting artifact for %s", name)})

	selected, selErr := selector.SelectArtifact(ctx, ambiguous.Matches, fmt.Sprintf("Multiple artifacts match %s, select one", name))
	if selErr != nil {
		return nil, fmt.Errorf("%w: %w", err, selErr)
	}
	return selected, nil
}

// requireNetwork returns the active network or ErrNoNetwork
func requireNetwork(cfg *config.RuntimeConfig) (*config.Network, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("%w: --network flag is required", domain.ErrNoNetwork)
	}
	return cfg.Network, nil
}

// confirmBroadcast asks before sending transactions to a live network
func confirmBroadcast(ctx context.Context, cfg *config.RuntimeConfig, confirmer Confirmer, prompt string) error {
	if !cfg.Network.Live || cfg.AssumeYes {
		return nil
	}
	if cfg.NonInteractive || confirmer == nil {
		return fmt.Errorf("%w: refusing to broadcast to live network %s without --yes", domain.ErrAborted, cfg.Network.Name)
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}
