package config

import (
	"github.com/thomas-vilte/prtitle/internal/models"
)

type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeSuggest Mode = "suggest"
)

const (
	LangEN = "en"
	LangES = "es"
)

const (
	defaultProvider             = ProviderOpenAI
	defaultTemperature          = 0.3
	defaultMaxTokens            = 500
	defaultMode                 = ModeSuggest
	defaultMaxLength            = 72
	defaultMinDescriptionLength = 3
	defaultMaxRetries           = 3
	defaultConfigFile           = ".github/pr-title.yml"
	defaultVertexLocation       = "us-central1"
)

type Config struct {
	GitHubToken string
	PRNumber    int

	Provider       Provider
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float64
	MaxTokens      int
	MaxRetries     int
	VertexProject  string
	VertexLocation string

	Mode                 Mode
	AllowedTypes         []string
	RequireScope         bool
	MaxLength            int
	MinDescriptionLength int
	IncludeScope         bool
	SkipIfConventional   bool
	MatchLanguage        bool
	CustomPrompt         string
	CommentTemplate      string
	AutoComment          bool
	Language             string

	Debug       bool
	FailOnError bool
	ConfigFile  string
}

// Default returns the configuration used when no input overrides a field.
func Default() *Config {
	return &Config{
		Provider:             defaultProvider,
		Temperature:          defaultTemperature,
		MaxTokens:            defaultMaxTokens,
		MaxRetries:           defaultMaxRetries,
		VertexLocation:       defaultVertexLocation,
		Mode:                 defaultMode,
		AllowedTypes:         append([]string(nil), models.DefaultAllowedTypes...),
		MaxLength:            defaultMaxLength,
		MinDescriptionLength: defaultMinDescriptionLength,
		SkipIfConventional:   true,
		MatchLanguage:        true,
		Language:             LangEN,
		ConfigFile:           defaultConfigFile,
	}
}

// WithMode returns a copy of c with a different mode. The receiver is left untouched.
func (c *Config) WithMode(mode Mode) *Config {
	clone := *c
	clone.AllowedTypes = append([]string(nil), c.AllowedTypes...)
	clone.Mode = mode
	return &clone
}

func (c *Config) ValidationOptions() models.ValidationOptions {
	return models.ValidationOptions{
		AllowedTypes:         c.AllowedTypes,
		RequireScope:         c.RequireScope,
		MaxLength:            c.MaxLength,
		MinDescriptionLength: c.MinDescriptionLength,
	}
}

func (c *Config) TitleOptions() models.TitleOptions {
	return models.TitleOptions{
		IncludeScope:   c.IncludeScope || c.RequireScope,
		RequireScope:   c.RequireScope,
		PreferredTypes: c.AllowedTypes,
		MaxLength:      c.MaxLength,
		MatchLanguage:  c.MatchLanguage,
		CustomPrompt:   c.CustomPrompt,
	}
}
