package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/models"
)

type recordedSleeps struct {
	delays []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestProvider(t *testing.T, gen TextGenerator, sleeps *recordedSleeps) *TitleProvider {
	t.Helper()
	p, err := NewTitleProvider("openai", gen, ProviderConfig{APIKey: "k", Model: "gpt-4o-mini"}, false, WithSleep(sleeps.sleep))
	require.NoError(t, err)
	return p
}

func TestNewTitleProvider(t *testing.T) {
	gen := new(MockTextGenerator)

	t.Run("should apply defaults", func(t *testing.T) {
		p, err := NewTitleProvider("openai", gen, ProviderConfig{APIKey: "k", Model: "gpt-4o"}, false)

		require.NoError(t, err)
		assert.Equal(t, 500, p.cfg.MaxTokens)
		assert.Equal(t, 0.3, *p.cfg.Temperature)
		assert.Equal(t, "gpt-4o", p.Model())
	})

	t.Run("should require an api key", func(t *testing.T) {
		_, err := NewTitleProvider("openai", gen, ProviderConfig{}, false)
		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyMissing)
	})

	t.Run("should allow a missing key for key-optional providers", func(t *testing.T) {
		_, err := NewTitleProvider("claude-code", gen, ProviderConfig{}, true)
		assert.NoError(t, err)
	})

	t.Run("should reject out of range tuning", func(t *testing.T) {
		_, err := NewTitleProvider("openai", gen, ProviderConfig{APIKey: "k", Temperature: Float(1.2)}, false)
		assert.ErrorContains(t, err, "temperature must be between 0 and 1")

		_, err = NewTitleProvider("openai", gen, ProviderConfig{APIKey: "k", MaxTokens: -1}, false)
		assert.ErrorContains(t, err, "maxTokens must be at least 1")
	})
}

func TestTitleProvider_GenerateTitle(t *testing.T) {
	req := models.TitleGenerationRequest{
		OriginalTitle: "Add login",
		Options:       models.TitleOptions{PreferredTypes: []string{"feat"}},
	}

	t.Run("should send prompts and parse the reply", func(t *testing.T) {
		gen := new(MockTextGenerator)
		sleeps := &recordedSleeps{}
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(r CompletionRequest) bool {
			return r.Model == "gpt-4o-mini" &&
				r.MaxTokens == 500 &&
				r.Temperature == 0.3 &&
				r.ResponseSchema != nil &&
				r.System != "" &&
				r.Prompt != ""
		})).Return(`{"suggestions":["feat: add login"],"reasoning":"r","confidence":0.9}`, nil).Once()

		resp, err := newTestProvider(t, gen, sleeps).GenerateTitle(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, []string{"feat: add login"}, resp.Suggestions)
		assert.Empty(t, sleeps.delays)
		gen.AssertExpectations(t)
	})

	t.Run("should retry retryable errors with exponential backoff", func(t *testing.T) {
		gen := new(MockTextGenerator)
		sleeps := &recordedSleeps{}
		rateLimited := domainErrors.NewProviderError("openai", "", 429, "rate_limit", errors.New("slow down"))
		gen.On("Generate", mock.Anything, mock.Anything).Return("", rateLimited).Times(3)
		gen.On("Generate", mock.Anything, mock.Anything).Return(`{"suggestions":["feat: add login"]}`, nil).Once()

		resp, err := newTestProvider(t, gen, sleeps).GenerateTitle(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "feat: add login", resp.Suggestions[0])
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeps.delays)
		gen.AssertNumberOfCalls(t, "Generate", 4)
	})

	t.Run("should give up after four attempts with a qualified error", func(t *testing.T) {
		gen := new(MockTextGenerator)
		sleeps := &recordedSleeps{}
		gen.On("Generate", mock.Anything, mock.Anything).
			Return("", domainErrors.NewProviderError("", "", 503, "unavailable", errors.New("try later")))

		_, err := newTestProvider(t, gen, sleeps).GenerateTitle(context.Background(), req)

		var pe *domainErrors.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 4, pe.Attempts)
		assert.Equal(t, "openai generate title failed (status 503, code unavailable, after 4 attempts): try later", err.Error())
		gen.AssertNumberOfCalls(t, "Generate", 4)
	})

	t.Run("should not retry non-retryable errors", func(t *testing.T) {
		gen := new(MockTextGenerator)
		sleeps := &recordedSleeps{}
		gen.On("Generate", mock.Anything, mock.Anything).
			Return("", domainErrors.NewProviderError("openai", "", 401, "invalid_api_key", errors.New("bad key"))).Once()

		_, err := newTestProvider(t, gen, sleeps).GenerateTitle(context.Background(), req)

		assert.ErrorContains(t, err, "status 401")
		gen.AssertNumberOfCalls(t, "Generate", 1)
		assert.Empty(t, sleeps.delays)
	})

	t.Run("should wrap untyped errors without retrying", func(t *testing.T) {
		gen := new(MockTextGenerator)
		sleeps := &recordedSleeps{}
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

		_, err := newTestProvider(t, gen, sleeps).GenerateTitle(context.Background(), req)

		assert.EqualError(t, err, "openai generate title failed: boom")
	})
}

type pingGenerator struct {
	MockTextGenerator
	err error
}

func (p *pingGenerator) Ping(context.Context) error {
	return p.err
}

func TestTitleProvider_IsHealthy(t *testing.T) {
	t.Run("should probe with a tiny completion", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(r CompletionRequest) bool {
			return r.MaxTokens == 10 && r.Prompt == "Reply with OK"
		})).Return("OK", nil).Once()

		assert.True(t, newTestProvider(t, gen, &recordedSleeps{}).IsHealthy(context.Background()))
	})

	t.Run("should report false on failure", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("down")).Once()

		assert.False(t, newTestProvider(t, gen, &recordedSleeps{}).IsHealthy(context.Background()))
	})

	t.Run("should prefer a dedicated ping", func(t *testing.T) {
		gen := &pingGenerator{err: errors.New("not installed")}

		assert.False(t, newTestProvider(t, gen, &recordedSleeps{}).IsHealthy(context.Background()))
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}
