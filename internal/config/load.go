package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/regex"
)

// Input names as declared in action.yml.
const (
	InputGitHubToken          = "github-token"
	InputPRNumber             = "pr-number"
	InputProvider             = "ai-provider"
	InputAPIKey               = "api-key"
	InputModel                = "model"
	InputBaseURL              = "base-url"
	InputTemperature          = "temperature"
	InputMaxTokens            = "max-tokens"
	InputMaxRetries           = "max-retries"
	InputMode                 = "mode"
	InputAllowedTypes         = "allowed-types"
	InputRequireScope         = "require-scope"
	InputMaxLength            = "max-length"
	InputMinDescriptionLength = "min-description-length"
	InputCustomPrompt         = "custom-prompt"
	InputIncludeScope         = "include-scope"
	InputSkipIfConventional   = "skip-if-conventional"
	InputCommentTemplate      = "comment-template"
	InputAutoComment          = "auto-comment"
	InputMatchLanguage        = "match-language"
	InputLanguage             = "language"
	InputDebug                = "debug"
	InputFailOnError          = "fail-on-error"
	InputConfigFile           = "config-file"
	InputVertexProject        = "vertex-project"
	InputVertexLocation       = "vertex-location"
)

// Source provides raw action inputs. ok is false when the input was not set.
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource is a Source backed by a map, empty values count as unset.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

type loader struct {
	lookupEnv     func(string) (string, bool)
	tokenOptional bool
}

type LoadOption func(*loader)

// WithEnv replaces os.LookupEnv for provider credential fallbacks.
func WithEnv(lookup func(string) (string, bool)) LoadOption {
	return func(l *loader) {
		l.lookupEnv = lookup
	}
}

// WithoutGitHubToken skips the token requirement, for commands that only talk to the AI provider.
func WithoutGitHubToken() LoadOption {
	return func(l *loader) {
		l.tokenOptional = true
	}
}

// Load builds a validated Config from defaults, the optional repository
// file and action inputs, in increasing precedence. Every invalid field is
// reported in a single *errors.ConfigurationError.
func Load(src Source, opts ...LoadOption) (*Config, error) {
	l := &loader{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}

	cfg := Default()
	cfgErr := &domainErrors.ConfigurationError{}

	path, explicit := src.Lookup(InputConfigFile)
	if !explicit {
		path = cfg.ConfigFile
	}
	cfg.ConfigFile = path
	fc, err := LoadFile(path, explicit)
	if err != nil {
		cfgErr.Add(InputConfigFile, err.Error(), "Check the path and YAML syntax of the config file")
	}
	fc.apply(cfg)

	p := &inputParser{src: src, errs: cfgErr}
	p.string(InputGitHubToken, &cfg.GitHubToken)
	p.int(InputPRNumber, &cfg.PRNumber)
	p.string(InputAPIKey, &cfg.APIKey)
	p.string(InputModel, &cfg.Model)
	p.string(InputBaseURL, &cfg.BaseURL)
	p.float(InputTemperature, &cfg.Temperature)
	p.int(InputMaxTokens, &cfg.MaxTokens)
	p.int(InputMaxRetries, &cfg.MaxRetries)
	p.int(InputMaxLength, &cfg.MaxLength)
	p.int(InputMinDescriptionLength, &cfg.MinDescriptionLength)
	p.bool(InputRequireScope, &cfg.RequireScope)
	p.bool(InputIncludeScope, &cfg.IncludeScope)
	p.bool(InputSkipIfConventional, &cfg.SkipIfConventional)
	p.bool(InputAutoComment, &cfg.AutoComment)
	p.bool(InputMatchLanguage, &cfg.MatchLanguage)
	p.bool(InputDebug, &cfg.Debug)
	p.bool(InputFailOnError, &cfg.FailOnError)
	p.string(InputCustomPrompt, &cfg.CustomPrompt)
	p.string(InputCommentTemplate, &cfg.CommentTemplate)
	p.string(InputLanguage, &cfg.Language)
	p.string(InputVertexProject, &cfg.VertexProject)
	p.string(InputVertexLocation, &cfg.VertexLocation)

	if v, ok := src.Lookup(InputProvider); ok {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := src.Lookup(InputMode); ok {
		cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := src.Lookup(InputAllowedTypes); ok {
		cfg.AllowedTypes = normalizeTypes(strings.Split(v, ","))
	}

	l.applyEnvFallbacks(cfg)
	validate(cfg, cfgErr, !l.tokenOptional)

	if err := cfgErr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *loader) applyEnvFallbacks(cfg *Config) {
	info, ok := LookupProvider(cfg.Provider)
	if !ok {
		return
	}
	if cfg.APIKey == "" {
		if v, ok := l.lookupEnv(info.EnvKey); ok {
			cfg.APIKey = strings.TrimSpace(v)
		}
	}
	if cfg.BaseURL == "" {
		if v, ok := l.lookupEnv(info.BaseURLEnvKey); ok {
			cfg.BaseURL = strings.TrimSpace(v)
		}
	}
	if cfg.Provider != ProviderGoogleVertex {
		return
	}
	if cfg.VertexProject == "" {
		if v, ok := l.lookupEnv("GOOGLE_CLOUD_PROJECT"); ok {
			cfg.VertexProject = strings.TrimSpace(v)
		}
	}
	if v, ok := l.lookupEnv("GOOGLE_CLOUD_LOCATION"); ok && strings.TrimSpace(v) != "" && cfg.VertexLocation == defaultVertexLocation {
		cfg.VertexLocation = strings.TrimSpace(v)
	}
}

func validate(cfg *Config, errs *domainErrors.ConfigurationError, requireToken bool) {
	if requireToken && cfg.GitHubToken == "" {
		errs.Add(InputGitHubToken, "is required", domainErrors.ErrTokenMissing.Suggestion)
	}

	info, supported := LookupProvider(cfg.Provider)
	if !supported {
		names := make([]string, 0, len(providerOrder))
		for _, p := range providerOrder {
			names = append(names, string(p))
		}
		errs.Add(InputProvider, fmt.Sprintf("unsupported provider %q", cfg.Provider),
			"Use one of: "+strings.Join(names, ", "))
	} else {
		if cfg.APIKey == "" && !info.APIKeyOptional {
			errs.Add(InputAPIKey, fmt.Sprintf("is required for %s", info.Name),
				fmt.Sprintf("Set the api-key input or the %s environment variable", info.EnvKey))
		}
		if info.RequiresBaseURL && cfg.BaseURL == "" {
			errs.Add(InputBaseURL, fmt.Sprintf("is required for %s", info.Name),
				fmt.Sprintf("Set the base-url input or the %s environment variable", info.BaseURLEnvKey))
		}
		// Express mode authenticates with an API key and needs no project.
		if cfg.Provider == ProviderGoogleVertex && cfg.VertexProject == "" && cfg.APIKey == "" {
			errs.Add(InputVertexProject, "is required for Google Vertex AI",
				"Set the vertex-project input or GOOGLE_CLOUD_PROJECT")
		}
	}

	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		errs.Add(InputTemperature, "must be between 0 and 1", "Use a value such as 0.3")
	}
	if cfg.MaxTokens < 1 || cfg.MaxTokens > 4000 {
		errs.Add(InputMaxTokens, "must be between 1 and 4000", "Use a value such as 500")
	}
	if cfg.MaxRetries < 0 || cfg.MaxRetries > 10 {
		errs.Add(InputMaxRetries, "must be between 0 and 10", "")
	}
	if cfg.Mode != ModeAuto && cfg.Mode != ModeSuggest {
		errs.Add(InputMode, "must be 'auto' or 'suggest'", "")
	}
	if cfg.MaxLength < 10 {
		errs.Add(InputMaxLength, "must be at least 10", "Use a value such as 72")
	}
	if cfg.MinDescriptionLength < 0 {
		errs.Add(InputMinDescriptionLength, "must not be negative", "")
	}
	if len(cfg.AllowedTypes) == 0 {
		errs.Add(InputAllowedTypes, "must list at least one type", "e.g. feat,fix,docs,chore")
	}
	for _, t := range cfg.AllowedTypes {
		if !regex.CommitType.MatchString(t) {
			errs.Add(InputAllowedTypes, fmt.Sprintf("invalid type %q", t), "Types may only contain letters, digits and hyphens")
		}
	}
	if cfg.Language != LangEN && cfg.Language != LangES {
		errs.Add(InputLanguage, fmt.Sprintf("unsupported language %q", cfg.Language), "Use 'en' or 'es'")
	}
}

func normalizeTypes(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

type inputParser struct {
	src  Source
	errs *domainErrors.ConfigurationError
}

func (p *inputParser) string(name string, dst *string) {
	if v, ok := p.src.Lookup(name); ok {
		*dst = strings.TrimSpace(v)
	}
}

func (p *inputParser) int(name string, dst *int) {
	v, ok := p.src.Lookup(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.errs.Add(name, fmt.Sprintf("must be a whole number, got %q", v), "")
		return
	}
	*dst = n
}

func (p *inputParser) float(name string, dst *float64) {
	v, ok := p.src.Lookup(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.errs.Add(name, fmt.Sprintf("must be a number, got %q", v), "")
		return
	}
	*dst = f
}

func (p *inputParser) bool(name string, dst *bool) {
	v, ok := p.src.Lookup(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		p.errs.Add(name, fmt.Sprintf("must be true or false, got %q", v), "")
		return
	}
	*dst = b
}
