package config

import "slices"

type Provider string

const (
	ProviderOpenAI       Provider = "openai"
	ProviderAnthropic    Provider = "anthropic"
	ProviderGoogle       Provider = "google"
	ProviderGoogleVertex Provider = "google-vertex"
	ProviderMistral      Provider = "mistral"
	ProviderXAI          Provider = "xai"
	ProviderCohere       Provider = "cohere"
	ProviderAzure        Provider = "azure"
	ProviderDeepSeek     Provider = "deepseek"
	ProviderGroq         Provider = "groq"
	ProviderClaudeCode   Provider = "claude-code"
)

// ProviderInfo is the static metadata kept for every supported provider.
type ProviderInfo struct {
	ID            Provider
	Name          string
	EnvKey        string
	BaseURLEnvKey string
	DefaultModel  string
	Models        []string
	// APIKeyOptional providers authenticate out of band (ADC, local CLI login).
	APIKeyOptional bool
	// DefaultBaseURL is used for OpenAI-compatible endpoints.
	DefaultBaseURL  string
	RequiresBaseURL bool
}

// SupportsModel reports whether model is one of the known identifiers.
func (p ProviderInfo) SupportsModel(model string) bool {
	return slices.Contains(p.Models, model)
}

var providerOrder = []Provider{
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGoogle,
	ProviderGoogleVertex,
	ProviderMistral,
	ProviderXAI,
	ProviderCohere,
	ProviderAzure,
	ProviderDeepSeek,
	ProviderGroq,
	ProviderClaudeCode,
}

var providers = map[Provider]ProviderInfo{
	ProviderOpenAI: {
		Name:          "OpenAI",
		EnvKey:        "OPENAI_API_KEY",
		BaseURLEnvKey: "OPENAI_BASE_URL",
		DefaultModel:  "gpt-4o-mini",
		Models:        []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1", "gpt-4.1-mini", "gpt-4.1-nano", "o3-mini", "o4-mini"},
	},
	ProviderAnthropic: {
		Name:          "Anthropic",
		EnvKey:        "ANTHROPIC_API_KEY",
		BaseURLEnvKey: "ANTHROPIC_BASE_URL",
		DefaultModel:  "claude-3-5-haiku-latest",
		Models:        []string{"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest", "claude-3-7-sonnet-latest", "claude-sonnet-4-0", "claude-opus-4-0"},
	},
	ProviderGoogle: {
		Name:          "Google Gemini",
		EnvKey:        "GOOGLE_GENERATIVE_AI_API_KEY",
		BaseURLEnvKey: "GOOGLE_GENERATIVE_AI_BASE_URL",
		DefaultModel:  "gemini-2.5-flash",
		Models:        []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.5-flash-lite", "gemini-2.0-flash"},
	},
	ProviderGoogleVertex: {
		Name:           "Google Vertex AI",
		EnvKey:         "GOOGLE_VERTEX_API_KEY",
		BaseURLEnvKey:  "GOOGLE_VERTEX_BASE_URL",
		DefaultModel:   "gemini-2.5-flash",
		Models:         []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.5-flash-lite", "gemini-2.0-flash"},
		APIKeyOptional: true,
	},
	ProviderMistral: {
		Name:           "Mistral",
		EnvKey:         "MISTRAL_API_KEY",
		BaseURLEnvKey:  "MISTRAL_BASE_URL",
		DefaultModel:   "mistral-small-latest",
		Models:         []string{"mistral-small-latest", "mistral-medium-latest", "mistral-large-latest", "open-mistral-nemo"},
		DefaultBaseURL: "https://api.mistral.ai/v1/",
	},
	ProviderXAI: {
		Name:           "xAI",
		EnvKey:         "XAI_API_KEY",
		BaseURLEnvKey:  "XAI_BASE_URL",
		DefaultModel:   "grok-3-mini",
		Models:         []string{"grok-3-mini", "grok-3", "grok-4"},
		DefaultBaseURL: "https://api.x.ai/v1/",
	},
	ProviderCohere: {
		Name:           "Cohere",
		EnvKey:         "COHERE_API_KEY",
		BaseURLEnvKey:  "COHERE_BASE_URL",
		DefaultModel:   "command-r-plus",
		Models:         []string{"command-r-plus", "command-r", "command-a-03-2025"},
		DefaultBaseURL: "https://api.cohere.ai/compatibility/v1/",
	},
	ProviderAzure: {
		Name:            "Azure OpenAI",
		EnvKey:          "AZURE_API_KEY",
		BaseURLEnvKey:   "AZURE_BASE_URL",
		DefaultModel:    "gpt-4o-mini",
		Models:          []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1", "gpt-4.1-mini"},
		RequiresBaseURL: true,
	},
	ProviderDeepSeek: {
		Name:           "DeepSeek",
		EnvKey:         "DEEPSEEK_API_KEY",
		BaseURLEnvKey:  "DEEPSEEK_BASE_URL",
		DefaultModel:   "deepseek-chat",
		Models:         []string{"deepseek-chat", "deepseek-reasoner"},
		DefaultBaseURL: "https://api.deepseek.com/v1/",
	},
	ProviderGroq: {
		Name:           "Groq",
		EnvKey:         "GROQ_API_KEY",
		BaseURLEnvKey:  "GROQ_BASE_URL",
		DefaultModel:   "llama-3.3-70b-versatile",
		Models:         []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant", "openai/gpt-oss-120b"},
		DefaultBaseURL: "https://api.groq.com/openai/v1/",
	},
	ProviderClaudeCode: {
		Name:           "Claude Code",
		EnvKey:         "CLAUDE_CODE_API_KEY",
		BaseURLEnvKey:  "CLAUDE_CODE_BASE_URL",
		DefaultModel:   "sonnet",
		Models:         []string{"sonnet", "opus", "haiku"},
		APIKeyOptional: true,
	},
}

// SupportedProviders returns provider identifiers in display order.
func SupportedProviders() []Provider {
	return slices.Clone(providerOrder)
}

// LookupProvider returns the metadata for id.
func LookupProvider(id Provider) (ProviderInfo, bool) {
	info, ok := providers[id]
	if !ok {
		return ProviderInfo{}, false
	}
	info.ID = id
	info.Models = slices.Clone(info.Models)
	return info, true
}
