package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"gopkg.in/yaml.v3"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) LoadOption {
	return WithEnv(func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	})
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yml")
}

func TestLoad(t *testing.T) {
	t.Run("should apply defaults when only required inputs are set", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputAPIKey:      "sk-test",
		}, WithEnv(noEnv))

		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, 0.3, cfg.Temperature)
		assert.Equal(t, 500, cfg.MaxTokens)
		assert.Equal(t, ModeSuggest, cfg.Mode)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.True(t, cfg.SkipIfConventional)
		assert.Equal(t, []string{"feat", "fix", "docs", "style", "refactor", "test", "chore", "perf", "ci", "build", "revert"}, cfg.AllowedTypes)
	})

	t.Run("should parse typed inputs", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken:          "ghs_x",
			InputProvider:             "Anthropic",
			InputAPIKey:               "key",
			InputTemperature:          "0.7",
			InputMaxTokens:            "1000",
			InputMode:                 "AUTO",
			InputAllowedTypes:         " feat, FIX ,,feat,chore ",
			InputRequireScope:         "true",
			InputMaxLength:            "60",
			InputMinDescriptionLength: "5",
			InputSkipIfConventional:   "false",
			InputConfigFile:           "",
		}, WithEnv(noEnv))

		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, cfg.Provider)
		assert.Equal(t, 0.7, cfg.Temperature)
		assert.Equal(t, 1000, cfg.MaxTokens)
		assert.Equal(t, ModeAuto, cfg.Mode)
		assert.Equal(t, []string{"feat", "fix", "chore"}, cfg.AllowedTypes)
		assert.True(t, cfg.RequireScope)
		assert.Equal(t, 60, cfg.MaxLength)
		assert.Equal(t, 5, cfg.MinDescriptionLength)
		assert.False(t, cfg.SkipIfConventional)
	})

	t.Run("should fall back to provider environment variables", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "google",
		}, envMap(map[string]string{
			"GOOGLE_GENERATIVE_AI_API_KEY":  "g-key",
			"GOOGLE_GENERATIVE_AI_BASE_URL": "https://proxy.example.com",
			"OPENAI_API_KEY":                "ignored",
		}))

		require.NoError(t, err)
		assert.Equal(t, "g-key", cfg.APIKey)
		assert.Equal(t, "https://proxy.example.com", cfg.BaseURL)
	})

	t.Run("should prefer the input over the environment", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputAPIKey:      "from-input",
		}, envMap(map[string]string{"OPENAI_API_KEY": "from-env"}))

		require.NoError(t, err)
		assert.Equal(t, "from-input", cfg.APIKey)
	})

	t.Run("should not require a key for key-optional providers", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "claude-code",
		}, WithEnv(noEnv))

		require.NoError(t, err)
		assert.Empty(t, cfg.APIKey)
	})

	t.Run("should resolve the vertex project and location from the environment", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "google-vertex",
		}, envMap(map[string]string{
			"GOOGLE_CLOUD_PROJECT":  "my-project",
			"GOOGLE_CLOUD_LOCATION": "europe-west4",
		}))

		require.NoError(t, err)
		assert.Equal(t, "my-project", cfg.VertexProject)
		assert.Equal(t, "europe-west4", cfg.VertexLocation)
	})

	t.Run("should require a vertex project without an API key", func(t *testing.T) {
		_, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "google-vertex",
		}, WithEnv(noEnv))

		var cfgErr *domainErrors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, err.Error(), InputVertexProject)
	})

	t.Run("should accept vertex express mode with only an API key", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "google-vertex",
			InputAPIKey:      "vertex-key",
		}, WithEnv(noEnv))

		require.NoError(t, err)
		assert.Empty(t, cfg.VertexProject)
	})

	t.Run("should collect every invalid field", func(t *testing.T) {
		_, err := Load(MapSource{
			InputTemperature:  "1.5",
			InputMaxTokens:    "0",
			InputMode:         "yolo",
			InputMaxLength:    "5",
			InputRequireScope: "maybe",
		}, WithEnv(noEnv))

		var cfgErr *domainErrors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))

		fields := make([]string, 0, len(cfgErr.Fields))
		for _, f := range cfgErr.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{
			InputRequireScope,
			InputGitHubToken,
			InputAPIKey,
			InputTemperature,
			InputMaxTokens,
			InputMode,
			InputMaxLength,
		}, fields)
		assert.Contains(t, cfgErr.Format(), "OPENAI_API_KEY")
	})

	t.Run("should not require a token when told so", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputProvider: "anthropic",
			InputAPIKey:   "a-key",
		}, WithEnv(noEnv), WithoutGitHubToken())

		require.NoError(t, err)
		assert.Empty(t, cfg.GitHubToken)
		assert.Equal(t, ProviderAnthropic, cfg.Provider)
	})

	t.Run("should reject unknown providers", func(t *testing.T) {
		_, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "llama-local",
		}, WithEnv(noEnv))

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unsupported provider "llama-local"`)
	})

	t.Run("should require a base URL for azure", func(t *testing.T) {
		_, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputProvider:    "azure",
			InputAPIKey:      "k",
		}, WithEnv(noEnv))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "base-url")
	})

	t.Run("should fail when an explicit config file is missing", func(t *testing.T) {
		_, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputAPIKey:      "k",
			InputConfigFile:  missingFile(t),
		}, WithEnv(noEnv))

		require.Error(t, err)
		assert.Contains(t, err.Error(), InputConfigFile)
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr-title.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: anthropic
mode: auto
allowed-types: [feat, fix, docs]
require-scope: true
max-length: 50
language: es
comment-template: |
  Try {{ index .Suggestions 0 }}
`), 0o644))

	t.Run("should use file values as defaults", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputConfigFile:  path,
		}, envMap(map[string]string{"ANTHROPIC_API_KEY": "a-key"}))

		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, cfg.Provider)
		assert.Equal(t, "a-key", cfg.APIKey)
		assert.Equal(t, ModeAuto, cfg.Mode)
		assert.Equal(t, []string{"feat", "fix", "docs"}, cfg.AllowedTypes)
		assert.True(t, cfg.RequireScope)
		assert.Equal(t, 50, cfg.MaxLength)
		assert.Equal(t, LangES, cfg.Language)
		assert.Equal(t, "Try {{ index .Suggestions 0 }}\n", cfg.CommentTemplate)
	})

	t.Run("should let inputs override the file", func(t *testing.T) {
		cfg, err := Load(MapSource{
			InputGitHubToken: "ghs_x",
			InputConfigFile:  path,
			InputMode:        "suggest",
			InputMaxLength:   "100",
		}, envMap(map[string]string{"ANTHROPIC_API_KEY": "a-key"}))

		require.NoError(t, err)
		assert.Equal(t, ModeSuggest, cfg.Mode)
		assert.Equal(t, 100, cfg.MaxLength)
	})
}

// actionInputs returns the inputs the runner always exports, i.e. those with
// a default in action.yml, as the runner would pass them.
func actionInputs(t *testing.T) MapSource {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "action.yml"))
	require.NoError(t, err)

	var meta struct {
		Inputs map[string]struct {
			Default *string `yaml:"default"`
		} `yaml:"inputs"`
	}
	require.NoError(t, yaml.Unmarshal(data, &meta))

	src := MapSource{}
	for name, in := range meta.Inputs {
		if in.Default != nil {
			src[name] = *in.Default
		}
	}
	return src
}

func TestLoad_ActionDefaultsDoNotMaskFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr-title.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: anthropic
allowed-types: [feat, fix]
require-scope: true
max-length: 50
skip-if-conventional: false
temperature: 0.7
`), 0o644))

	src := actionInputs(t)
	src[InputGitHubToken] = "ghs_x"
	src[InputConfigFile] = path

	cfg, err := Load(src, envMap(map[string]string{"ANTHROPIC_API_KEY": "a-key"}))

	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, []string{"feat", "fix"}, cfg.AllowedTypes)
	assert.True(t, cfg.RequireScope)
	assert.Equal(t, 50, cfg.MaxLength)
	assert.False(t, cfg.SkipIfConventional)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, ModeSuggest, cfg.Mode)
}

func TestLoad_ActionDefaultsWithoutFile(t *testing.T) {
	src := actionInputs(t)
	src[InputGitHubToken] = "ghs_x"
	t.Chdir(t.TempDir())

	cfg, err := Load(src, envMap(map[string]string{"OPENAI_API_KEY": "o-key"}))

	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.Provider, cfg.Provider)
	assert.Equal(t, want.AllowedTypes, cfg.AllowedTypes)
	assert.Equal(t, want.MaxLength, cfg.MaxLength)
	assert.Equal(t, want.ConfigFile, cfg.ConfigFile)
}

func TestConfig_WithMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeAuto

	downgraded := cfg.WithMode(ModeSuggest)
	downgraded.AllowedTypes[0] = "changed"

	assert.Equal(t, ModeAuto, cfg.Mode)
	assert.Equal(t, ModeSuggest, downgraded.Mode)
	assert.Equal(t, "feat", cfg.AllowedTypes[0])
}

func TestProviderMetadata(t *testing.T) {
	for _, id := range SupportedProviders() {
		info, ok := LookupProvider(id)
		require.True(t, ok, id)
		assert.Equal(t, id, info.ID)
		assert.NotEmpty(t, info.EnvKey, id)
		assert.True(t, info.SupportsModel(info.DefaultModel), "%s default model must be listed", id)
	}

	_, ok := LookupProvider("nope")
	assert.False(t, ok)
}
