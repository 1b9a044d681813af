package ai

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/prtitle/internal/config"
	"github.com/thomas-vilte/prtitle/internal/models"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Name() string {
	return "mock"
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GenerateTitle(ctx context.Context, req models.TitleGenerationRequest) (*models.TitleGenerationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TitleGenerationResponse), args.Error(1)
}

func (m *MockProvider) IsHealthy(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

type MockProviderFactory struct {
	mock.Mock
}

func (m *MockProviderFactory) Create(id config.Provider, cfg ProviderConfig) (Provider, error) {
	args := m.Called(id, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Provider), args.Error(1)
}
