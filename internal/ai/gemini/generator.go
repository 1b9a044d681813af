package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/thomas-vilte/prtitle/internal/ai"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
	"google.golang.org/genai"
)

var _ ai.TextGenerator = (*Generator)(nil)

// Generator calls the Gemini API or Vertex AI through the genai SDK.
type Generator struct {
	client *genai.Client
	name   string
}

// New creates a Gemini API generator authenticated with an API key.
func New(ctx context.Context, name string, cfg ai.ProviderConfig) (*Generator, error) {
	return newGenerator(ctx, name, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
}

// NewVertex creates a Vertex AI generator. With an API key it uses express
// mode, otherwise Application Default Credentials for cfg.Project.
func NewVertex(ctx context.Context, name string, cfg ai.ProviderConfig) (*Generator, error) {
	cc := &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
	} else {
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	}
	return newGenerator(ctx, name, cc)
}

func newGenerator(ctx context.Context, name string, cc *genai.ClientConfig) (*Generator, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err).
			WithContext("provider", name)
	}
	return &Generator{client: client, name: name}, nil
}

func (g *Generator) Name() string {
	return g.name
}

func (g *Generator) Generate(ctx context.Context, req ai.CompletionRequest) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		logger.Debug(ctx, "gemini API call failed", "error", err, "model", req.Model)
		return "", classifyError(g.name, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		reason := "empty response"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			reason = "empty response, finish reason " + string(resp.Candidates[0].FinishReason)
		}
		return "", &domainErrors.ProviderError{
			Provider:  g.name,
			Retryable: true,
			Err:       errors.New(reason),
		}
	}
	return text, nil
}

func generateConfig(req ai.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.ResponseSchema
	}
	// 2.5 Flash models spend the output budget on thinking unless it is disabled.
	if strings.HasPrefix(req.Model, "gemini-2.5-flash") {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
	}
	return cfg
}

func classifyError(provider string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return domainErrors.NewProviderError(provider, "", apiErr.Code, apiErr.Status, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return domainErrors.NewProviderError(provider, "", apiErrPtr.Code, apiErrPtr.Status, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domainErrors.ProviderError{Provider: provider, Err: err}
	}
	return domainErrors.NewProviderError(provider, "", 0, "", err)
}
