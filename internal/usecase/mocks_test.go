package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) ListArtifacts(ctx context.Context) ([]*models.Artifact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Artifact), args.Error(1)
}

// MockAccountResolver is a mock implementation of AccountResolver
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) ResolveAccount(ctx context.Context, name string, network *config.Network) (*models.Account, error) {
	args := m.Called(ctx, name, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) GetDeployment(ctx context.Context, network, name string) (*models.Deployment, error) {
	args := m.Called(ctx, network, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter usecase.DeploymentFilter) ([]*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

func (m *MockDeploymentRepository) CheckChainID(ctx context.Context, network string, chainID uint64) error {
	args := m.Called(ctx, network, chainID)
	return args.Error(0)
}

// MockScriptRepository is a mock implementation of ScriptRepository
type MockScriptRepository struct {
	mock.Mock
}

func (m *MockScriptRepository) LoadScripts(ctx context.Context) ([]*domain.DeployScript, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeployScript), args.Error(1)
}

// MockContractDeployer is a mock implementation of ContractDeployer
type MockContractDeployer struct {
	mock.Mock
}

func (m *MockContractDeployer) ChainID(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockContractDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeployResult), args.Error(1)
}

func (m *MockContractDeployer) DeployProxy(ctx context.Context, req usecase.ProxyDeployRequest) (*usecase.ProxyDeployResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ProxyDeployResult), args.Error(1)
}

// MockSelector is a mock implementation of ArtifactSelector and Confirmer
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectArtifact(ctx context.Context, artifacts []*models.Artifact, prompt string) (*models.Artifact, error) {
	args := m.Called(ctx, artifacts, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockSelector) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// RecordingSink collects progress output
type RecordingSink struct {
	mu     sync.Mutex
	Events []usecase.ProgressEvent
	Lines  []string
}

func (s *RecordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

func (s *RecordingSink) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, message)
}

func (s *RecordingSink) Error(message string) {
	s.Info(message)
}

func (s *RecordingSink) Stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	stages := make([]string, len(s.Events))
	for i, e := range s.Events {
		stages[i] = e.Stage
	}
	return stages
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
