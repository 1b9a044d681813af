package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/thomas-vilte/prtitle/internal/ai"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
)

var _ ai.TextGenerator = (*Generator)(nil)

type Generator struct {
	client anthropic.Client
	name   string
}

// New creates a Messages API generator. Retries are left to the title provider.
func New(name string, cfg ai.ProviderConfig) *Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Generator{client: anthropic.NewClient(opts...), name: name}
}

func (g *Generator) Name() string {
	return g.name
}

func (g *Generator) Generate(ctx context.Context, req ai.CompletionRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		logger.Debug(ctx, "anthropic API call failed", "error", err, "model", req.Model)
		return "", classifyError(g.name, err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return "", &domainErrors.ProviderError{
			Provider:  g.name,
			Retryable: true,
			Err:       errors.New("empty response, stop reason " + string(message.StopReason)),
		}
	}
	return text, nil
}

func classifyError(provider string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return domainErrors.NewProviderError(provider, "", apiErr.StatusCode, "", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domainErrors.ProviderError{Provider: provider, Err: err}
	}
	// Transport failures carry no status and are retried.
	return domainErrors.NewProviderError(provider, "", 0, "", err)
}
