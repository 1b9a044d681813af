package providers

import (
	"context"

	"github.com/thomas-vilte/prtitle/internal/ai"
	"github.com/thomas-vilte/prtitle/internal/ai/anthropic"
	"github.com/thomas-vilte/prtitle/internal/ai/claudecode"
	"github.com/thomas-vilte/prtitle/internal/ai/gemini"
	"github.com/thomas-vilte/prtitle/internal/ai/openai"
	"github.com/thomas-vilte/prtitle/internal/config"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
)

// NewGenerator dispatches on the provider id to the matching SDK adapter.
func NewGenerator(ctx context.Context, info config.ProviderInfo, cfg ai.ProviderConfig) (ai.TextGenerator, error) {
	name := string(info.ID)

	switch info.ID {
	case config.ProviderGoogle, config.ProviderGoogleVertex:
		newGemini := gemini.New
		if info.ID == config.ProviderGoogleVertex {
			newGemini = gemini.NewVertex
		}
		gen, err := newGemini(ctx, name, cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case config.ProviderAnthropic:
		return anthropic.New(name, cfg), nil
	case config.ProviderOpenAI:
		return openai.New(name, cfg, openai.WithStructuredOutput()), nil
	case config.ProviderAzure:
		if cfg.BaseURL == "" {
			return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "base URL is required", nil).
				WithContext("provider", name)
		}
		return openai.New(name, cfg, openai.WithAzure(), openai.WithStructuredOutput()), nil
	case config.ProviderMistral, config.ProviderXAI, config.ProviderCohere,
		config.ProviderDeepSeek, config.ProviderGroq:
		return openai.New(name, cfg), nil
	case config.ProviderClaudeCode:
		return claudecode.New(name, cfg), nil
	default:
		return nil, &domainErrors.UnsupportedProviderError{Provider: name, Create: true}
	}
}
