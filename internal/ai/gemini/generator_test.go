package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/prtitle/internal/ai"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := New(context.Background(), "google", ai.ProviderConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return g
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("should send system instruction and schema", func(t *testing.T) {
		var body map[string]any
		g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)
			data, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(data, &body))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"suggestions\":[\"feat: a\"]}"}]},"finishReason":"STOP"}]}`)
		})

		text, err := g.Generate(context.Background(), ai.CompletionRequest{
			System:         "be brief",
			Prompt:         "title please",
			Model:          "gemini-2.5-flash",
			MaxTokens:      500,
			Temperature:    0.3,
			ResponseSchema: map[string]any{"type": "object"},
		})

		require.NoError(t, err)
		assert.Equal(t, `{"suggestions":["feat: a"]}`, text)
		assert.Contains(t, body, "systemInstruction")
		gen, ok := body["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "application/json", gen["responseMimeType"])
		assert.EqualValues(t, 500, gen["maxOutputTokens"])
	})

	t.Run("should classify rate limits as retryable", func(t *testing.T) {
		g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
		})

		_, err := g.Generate(context.Background(), ai.CompletionRequest{Prompt: "x", Model: "gemini-2.5-pro", MaxTokens: 10})

		var pe *domainErrors.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 429, pe.StatusCode)
		assert.True(t, domainErrors.IsRetryable(err))
	})

	t.Run("should not retry invalid keys", func(t *testing.T) {
		g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
		})

		_, err := g.Generate(context.Background(), ai.CompletionRequest{Prompt: "x", Model: "gemini-2.5-pro", MaxTokens: 10})

		require.Error(t, err)
		assert.False(t, domainErrors.IsRetryable(err))
	})
}

func TestGenerateConfig(t *testing.T) {
	t.Run("should disable thinking for flash models", func(t *testing.T) {
		cfg := generateConfig(ai.CompletionRequest{Model: "gemini-2.5-flash", MaxTokens: 100, Temperature: 0.2})

		require.NotNil(t, cfg.ThinkingConfig)
		assert.Equal(t, int32(0), *cfg.ThinkingConfig.ThinkingBudget)
		assert.Nil(t, cfg.SystemInstruction)
		assert.Empty(t, cfg.ResponseMIMEType)
	})

	t.Run("should keep thinking for pro models", func(t *testing.T) {
		cfg := generateConfig(ai.CompletionRequest{Model: "gemini-2.5-pro", System: "s"})

		assert.Nil(t, cfg.ThinkingConfig)
		require.NotNil(t, cfg.SystemInstruction)
		assert.Equal(t, "s", cfg.SystemInstruction.Parts[0].Text)
	})
}
