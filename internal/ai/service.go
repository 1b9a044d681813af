package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/thomas-vilte/prtitle/internal/config"
	"github.com/thomas-vilte/prtitle/internal/logger"
	"github.com/thomas-vilte/prtitle/internal/models"
)

const (
	serviceBaseBackoff = time.Second
	serviceOperation   = "AI service"
)

// ProviderFactory builds (or reuses) a provider instance.
type ProviderFactory interface {
	Create(id config.Provider, cfg ProviderConfig) (Provider, error)
}

// Service is the orchestration entry point used by the PR processor.
// It retries any provider failure with a linear backoff on top of the
// provider's own retries.
type Service struct {
	factory  ProviderFactory
	provider config.Provider
	cfg      ProviderConfig
	retry    RetryPolicy
}

type ServiceOption func(*Service)

func WithServiceSleep(sleep SleepFunc) ServiceOption {
	return func(s *Service) {
		s.retry.Sleep = sleep
	}
}

func NewService(factory ProviderFactory, provider config.Provider, cfg ProviderConfig, maxRetries int, opts ...ServiceOption) *Service {
	s := &Service{
		factory:  factory,
		provider: provider,
		cfg:      cfg,
		retry: RetryPolicy{
			MaxRetries: maxRetries,
			Backoff:    LinearBackoff(serviceBaseBackoff),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromConfig wires the service from the action configuration.
func NewServiceFromConfig(factory ProviderFactory, cfg *config.Config, opts ...ServiceOption) *Service {
	return NewService(factory, cfg.Provider, ProviderConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: Float(cfg.Temperature),
		Debug:       cfg.Debug,
		Project:     cfg.VertexProject,
		Location:    cfg.VertexLocation,
	}, cfg.MaxRetries, opts...)
}

// GenerateTitles asks the configured provider for suggestions. Construction
// errors are returned as is, invocation errors only after every retry failed.
func (s *Service) GenerateTitles(ctx context.Context, req models.TitleGenerationRequest) (*models.TitleGenerationResponse, error) {
	provider, err := s.factory.Create(s.provider, s.cfg)
	if err != nil {
		return nil, err
	}

	resp, attempts, err := retryWithBackoff(ctx, s.retry, serviceOperation,
		func(ctx context.Context) (*models.TitleGenerationResponse, error) {
			return provider.GenerateTitle(ctx, req)
		})
	if err != nil {
		return nil, fmt.Errorf("%s failed after %d retries: %w", serviceOperation, s.retry.MaxRetries, err)
	}

	logger.Debug(ctx, "AI service succeeded", "provider", s.provider, "attempt", attempts)
	return resp, nil
}
