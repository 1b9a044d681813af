package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
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
	return New("anthropic", ai.ProviderConfig{APIKey: "sk-ant-test", BaseURL: srv.URL})
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("should join text blocks", func(t *testing.T) {
		var body map[string]any
		g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
			data, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(data, &body))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{
				"id": "msg_01",
				"type": "message",
				"role": "assistant",
				"model": "claude-3-5-haiku-latest",
				"content": [{"type": "text", "text": "{\"suggestions\":"}, {"type": "text", "text": "[\"fix: a\"]}"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 10, "output_tokens": 5}
			}`)
		})

		text, err := g.Generate(context.Background(), ai.CompletionRequest{
			System:      "system",
			Prompt:      "user",
			Model:       "claude-3-5-haiku-latest",
			MaxTokens:   500,
			Temperature: 0.3,
		})

		require.NoError(t, err)
		assert.Equal(t, `{"suggestions":["fix: a"]}`, text)
		assert.Equal(t, "claude-3-5-haiku-latest", body["model"])
		assert.EqualValues(t, 500, body["max_tokens"])
		assert.NotEmpty(t, body["system"])
	})

	t.Run("should mark overload as retryable", func(t *testing.T) {
		calls := 0
		g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(529)
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
		})

		_, err := g.Generate(context.Background(), ai.CompletionRequest{Prompt: "x", Model: "m", MaxTokens: 10})

		var pe *domainErrors.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 529, pe.StatusCode)
		assert.True(t, pe.Retryable)
		assert.Equal(t, 1, calls, "SDK retries must be disabled")
	})

	t.Run("should not retry authentication errors", func(t *testing.T) {
		g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
		})

		_, err := g.Generate(context.Background(), ai.CompletionRequest{Prompt: "x", Model: "m", MaxTokens: 10})

		require.Error(t, err)
		assert.False(t, domainErrors.IsRetryable(err))
	})
}
