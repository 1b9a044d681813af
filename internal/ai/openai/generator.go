package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/thomas-vilte/prtitle/internal/ai"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
)

// AzureAPIVersion is the Azure OpenAI data plane version used for chat completions.
const AzureAPIVersion = "2024-10-21"

const schemaName = "pr_title_suggestions"

var _ ai.TextGenerator = (*Generator)(nil)

// Generator talks to OpenAI and every backend exposing the Chat Completions API.
type Generator struct {
	client     openai.Client
	name       string
	structured bool
}

type Option func(*settings)

type settings struct {
	azure      bool
	structured bool
}

// WithAzure routes requests to an Azure OpenAI resource; the model is the deployment name.
func WithAzure() Option {
	return func(s *settings) { s.azure = true }
}

// WithStructuredOutput sends the response JSON schema as response_format.
// Only enable it for backends that accept json_schema.
func WithStructuredOutput() Option {
	return func(s *settings) { s.structured = true }
}

func New(name string, cfg ai.ProviderConfig, opts ...Option) *Generator {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	switch {
	case s.azure:
		reqOpts = append(reqOpts,
			azure.WithEndpoint(cfg.BaseURL, AzureAPIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default:
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
		}
	}

	return &Generator{
		client:     openai.NewClient(reqOpts...),
		name:       name,
		structured: s.structured,
	}
}

func (g *Generator) Name() string {
	return g.name
}

func (g *Generator) Generate(ctx context.Context, req ai.CompletionRequest) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}
	if g.structured && req.ResponseSchema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: req.ResponseSchema,
				},
			},
		}
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Debug(ctx, "chat completion failed", "provider", g.name, "error", err, "model", req.Model)
		return "", classifyError(g.name, err)
	}

	if len(completion.Choices) == 0 {
		return "", &domainErrors.ProviderError{Provider: g.name, Retryable: true, Err: errors.New("no choices in response")}
	}
	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &domainErrors.ProviderError{
			Provider:  g.name,
			Retryable: true,
			Err:       errors.New("empty response, finish reason " + completion.Choices[0].FinishReason),
		}
	}
	return text, nil
}

func classifyError(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		pe := domainErrors.NewProviderError(provider, "", apiErr.StatusCode, apiErr.Code, err)
		// A 429 for an exhausted balance never clears by waiting.
		if apiErr.Code == "insufficient_quota" {
			pe.Retryable = false
		}
		return pe
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domainErrors.ProviderError{Provider: provider, Err: err}
	}
	return domainErrors.NewProviderError(provider, "", 0, "", err)
}
