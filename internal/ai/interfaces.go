package ai

import (
	"context"

	"github.com/thomas-vilte/prtitle/internal/models"
)

// Provider generates Conventional Commit title suggestions.
type Provider interface {
	// GenerateTitle returns 1..3 candidate titles for the request, best first.
	GenerateTitle(ctx context.Context, req models.TitleGenerationRequest) (*models.TitleGenerationResponse, error)
	// IsHealthy never returns an error; any failure reports false.
	IsHealthy(ctx context.Context) bool
}

// CompletionRequest is a single system + user prompt completion.
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	// ResponseSchema is passed to backends that support structured output.
	ResponseSchema map[string]any
}

// TextGenerator is the one call that differs between backends.
// Implementations return *errors.ProviderError so retries can be classified.
type TextGenerator interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// HealthChecker is implemented by generators with a cheaper probe than a completion.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
