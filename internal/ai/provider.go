package ai

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
	"github.com/thomas-vilte/prtitle/internal/models"
)

const (
	providerMaxRetries  = 3
	providerBaseBackoff = time.Second
	healthCheckTimeout  = 30 * time.Second
	opGenerateTitle     = "generate title"
)

var _ Provider = (*TitleProvider)(nil)

// TitleProvider implements Provider on top of any TextGenerator. Backends only
// differ in how a completion is obtained, the prompt building, retry and
// response parsing are shared.
type TitleProvider struct {
	name           string
	generator      TextGenerator
	cfg            ProviderConfig
	apiKeyOptional bool
	retry          RetryPolicy
}

type TitleProviderOption func(*TitleProvider)

// WithSleep replaces the backoff sleep, mostly for tests.
func WithSleep(sleep SleepFunc) TitleProviderOption {
	return func(p *TitleProvider) {
		p.retry.Sleep = sleep
	}
}

// WithMaxRetries overrides the number of retries after the first attempt.
func WithMaxRetries(n int) TitleProviderOption {
	return func(p *TitleProvider) {
		p.retry.MaxRetries = n
	}
}

// NewTitleProvider validates cfg and returns a provider. cfg must already
// carry the resolved model.
func NewTitleProvider(name string, gen TextGenerator, cfg ProviderConfig, apiKeyOptional bool, opts ...TitleProviderOption) (*TitleProvider, error) {
	cfg = cfg.WithDefaults(cfg.Model)
	if err := cfg.Validate(name, apiKeyOptional); err != nil {
		return nil, err
	}

	p := &TitleProvider{
		name:           name,
		generator:      gen,
		cfg:            cfg,
		apiKeyOptional: apiKeyOptional,
		retry: RetryPolicy{
			MaxRetries:  providerMaxRetries,
			Backoff:     ExponentialBackoff(providerBaseBackoff),
			IsRetryable: domainErrors.IsRetryable,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *TitleProvider) Name() string {
	return p.name
}

func (p *TitleProvider) Model() string {
	return p.cfg.Model
}

func (p *TitleProvider) GenerateTitle(ctx context.Context, req models.TitleGenerationRequest) (*models.TitleGenerationResponse, error) {
	log := logger.FromContext(ctx).With("provider", p.name, "model", p.cfg.Model)

	if err := p.cfg.Validate(p.name, p.apiKeyOptional); err != nil {
		return nil, err
	}

	system, err := BuildSystemPrompt(req.Options)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "error building system prompt", err)
	}
	prompt := BuildUserPrompt(req)

	log.Debug("requesting title suggestions",
		"system_chars", len(system),
		"prompt_chars", len(prompt))

	completion := CompletionRequest{
		System:         system,
		Prompt:         prompt,
		Model:          p.cfg.Model,
		MaxTokens:      p.cfg.MaxTokens,
		Temperature:    *p.cfg.Temperature,
		ResponseSchema: ResponseSchema(),
	}

	start := time.Now()
	text, attempts, err := retryWithBackoff(ctx, p.retry, p.name+" "+opGenerateTitle,
		func(ctx context.Context) (string, error) {
			return p.generator.Generate(ctx, completion)
		})
	if err != nil {
		return nil, p.wrapError(err, attempts)
	}

	if p.cfg.Debug {
		log.Debug("raw AI response", "response", text)
	}

	resp := ParseTitleResponse(text)
	log.Info("received title suggestions",
		"count", len(resp.Suggestions),
		"attempt", attempts,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

func (p *TitleProvider) wrapError(err error, attempts int) error {
	var pe *domainErrors.ProviderError
	if errors.As(err, &pe) {
		wrapped := *pe
		if wrapped.Provider == "" {
			wrapped.Provider = p.name
		}
		if wrapped.Operation == "" {
			wrapped.Operation = opGenerateTitle
		}
		wrapped.Attempts = attempts
		return &wrapped
	}
	return &domainErrors.ProviderError{
		Provider:  p.name,
		Operation: opGenerateTitle,
		Attempts:  attempts,
		Err:       err,
	}
}

func (p *TitleProvider) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var err error
	if hc, ok := p.generator.(HealthChecker); ok {
		err = hc.Ping(ctx)
	} else {
		_, err = p.generator.Generate(ctx, CompletionRequest{
			Prompt:      "Reply with OK",
			Model:       p.cfg.Model,
			MaxTokens:   10,
			Temperature: 0,
		})
	}
	if err != nil {
		logger.Debug(ctx, "provider health check failed", "provider", p.name, "error", err)
		return false
	}
	return true
}
