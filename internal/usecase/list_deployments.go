package usecase

import (
	"context"
	"sort"

	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// Network comes from RuntimeConfig when set
	ContractName string
	Type         models.DeploymentType
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
	ByType    map[models.DeploymentType]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		repo:   repo,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	filter := DeploymentFilter{
		ContractName: params.ContractName,
		Type:         params.Type,
	}
	if uc.config.Network != nil {
		filter.Network = uc.config.Network.Name
	}

	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)
	summary := calculateSummary(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageComplete,
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     summary,
	}, nil
}

// sortDeployments sorts deployments by network, deployment time and name
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].Network != deployments[j].Network {
			return deployments[i].Network < deployments[j].Network
		}
		if !deployments[i].DeployedAt.Equal(deployments[j].DeployedAt) {
			return deployments[i].DeployedAt.Before(deployments[j].DeployedAt)
		}
		return deployments[i].Name < deployments[j].Name
	})
}

// calculateSummary calculates summary statistics for deployments
func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: make(map[string]int),
		ByType:    make(map[models.DeploymentType]int),
	}

	for _, dep := range deployments {
		summary.ByNetwork[dep.Network]++
		summary.ByType[dep.Type]++
	}

	return summary
}
