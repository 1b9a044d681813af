package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/prtitle/internal/models"
)

type MockGitHubService struct {
	mock.Mock
}

func (m *MockGitHubService) GetPRInfo(ctx context.Context, prNumber int) (*models.PRInfo, error) {
	args := m.Called(ctx, prNumber)
	info, _ := args.Get(0).(*models.PRInfo)
	return info, args.Error(1)
}

func (m *MockGitHubService) UpdatePRTitle(ctx context.Context, prNumber int, title string) error {
	args := m.Called(ctx, prNumber, title)
	return args.Error(0)
}

func (m *MockGitHubService) CreateComment(ctx context.Context, prNumber int, body string) (*models.Comment, error) {
	args := m.Called(ctx, prNumber, body)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *MockGitHubService) GetChangedFiles(ctx context.Context, prNumber int) ([]string, error) {
	args := m.Called(ctx, prNumber)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *MockGitHubService) GetPRDiff(ctx context.Context, prNumber int) (string, error) {
	args := m.Called(ctx, prNumber)
	return args.String(0), args.Error(1)
}

func (m *MockGitHubService) CheckPermissions(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

type MockTitleGenerator struct {
	mock.Mock
}

func (m *MockTitleGenerator) GenerateTitles(ctx context.Context, req models.TitleGenerationRequest) (*models.TitleGenerationResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.TitleGenerationResponse)
	return resp, args.Error(1)
}
