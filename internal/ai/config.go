package ai

import (
	"fmt"

	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
)

const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.3
)

// ProviderConfig holds credentials and tuning for one provider instance.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxTokens and Temperature use the defaults when zero or nil.
	MaxTokens   int
	Temperature *float64
	Debug       bool

	// Vertex AI only.
	Project  string
	Location string
}

// Float returns a pointer to v, for ProviderConfig.Temperature.
func Float(v float64) *float64 {
	return &v
}

// WithDefaults fills the unset tuning fields.
func (c ProviderConfig) WithDefaults(defaultModel string) ProviderConfig {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == nil {
		c.Temperature = Float(DefaultTemperature)
	}
	return c
}

// Validate checks auth and numeric ranges on a config with defaults applied.
// apiKeyOptional providers skip the key check.
func (c ProviderConfig) Validate(provider string, apiKeyOptional bool) error {
	if c.APIKey == "" && !apiKeyOptional {
		return domainErrors.ErrAPIKeyMissing.WithContext("provider", provider)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 1) {
		return domainErrors.NewAppError(domainErrors.TypeConfiguration,
			fmt.Sprintf("temperature must be between 0 and 1, got %v", *c.Temperature), nil).
			WithContext("provider", provider)
	}
	if c.MaxTokens < 1 {
		return domainErrors.NewAppError(domainErrors.TypeConfiguration,
			fmt.Sprintf("maxTokens must be at least 1, got %d", c.MaxTokens), nil).
			WithContext("provider", provider)
	}
	return nil
}
