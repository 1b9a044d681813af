package providers

import (
	"context"
	"sync"

	"github.com/thomas-vilte/prtitle/internal/ai"
	"github.com/thomas-vilte/prtitle/internal/config"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
)

var _ ai.ProviderFactory = (*Registry)(nil)

// GeneratorFunc builds the backend-specific text generator for a provider.
// cfg already carries the resolved model and base URL.
type GeneratorFunc func(ctx context.Context, info config.ProviderInfo, cfg ai.ProviderConfig) (ai.TextGenerator, error)

type cacheKey struct {
	Provider config.Provider
	Model    string
	BaseURL  string
}

// Registry creates provider instances and memoizes them for the process lifetime.
type Registry struct {
	mu           sync.Mutex
	cache        map[cacheKey]ai.Provider
	newGenerator GeneratorFunc
	providerOpts []ai.TitleProviderOption
}

type Option func(*Registry)

// WithGeneratorFunc replaces the SDK-backed generator constructor.
func WithGeneratorFunc(fn GeneratorFunc) Option {
	return func(r *Registry) { r.newGenerator = fn }
}

// WithProviderOptions is applied to every provider the registry creates.
func WithProviderOptions(opts ...ai.TitleProviderOption) Option {
	return func(r *Registry) { r.providerOpts = append(r.providerOpts, opts...) }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		cache:        make(map[cacheKey]ai.Provider),
		newGenerator: NewGenerator,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create returns the cached provider for (id, model, baseURL) or builds a new one.
func (r *Registry) Create(id config.Provider, cfg ai.ProviderConfig) (ai.Provider, error) {
	info, ok := config.LookupProvider(id)
	if !ok {
		return nil, &domainErrors.UnsupportedProviderError{Provider: string(id), Create: true}
	}
	if cfg.Model == "" {
		cfg.Model = info.DefaultModel
	}
	key := cacheKey{Provider: id, Model: cfg.Model, BaseURL: cfg.BaseURL}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.cache[key]; ok {
		return p, nil
	}

	cfg = cfg.WithDefaults(info.DefaultModel)
	if err := cfg.Validate(string(id), info.APIKeyOptional); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = info.DefaultBaseURL
	}
	gen, err := r.newGenerator(context.Background(), info, cfg)
	if err != nil {
		return nil, err
	}
	p, err := ai.NewTitleProvider(string(id), gen, cfg, info.APIKeyOptional, r.providerOpts...)
	if err != nil {
		return nil, err
	}

	r.cache[key] = p
	return p, nil
}

// HealthCheck never fails; construction and probe errors report false.
func (r *Registry) HealthCheck(ctx context.Context, id config.Provider, cfg ai.ProviderConfig) bool {
	p, err := r.Create(id, cfg)
	if err != nil {
		logger.Debug(ctx, "health check could not create provider", "provider", id, "error", err)
		return false
	}
	return p.IsHealthy(ctx)
}

func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func (r *Registry) IsProviderSupported(id config.Provider) bool {
	_, ok := config.LookupProvider(id)
	return ok
}

func (r *Registry) SupportedProviders() []config.Provider {
	return config.SupportedProviders()
}

func (r *Registry) ProviderInfo(id config.Provider) (config.ProviderInfo, error) {
	info, ok := config.LookupProvider(id)
	if !ok {
		return config.ProviderInfo{}, &domainErrors.UnsupportedProviderError{Provider: string(id)}
	}
	return info, nil
}

func (r *Registry) DefaultModel(id config.Provider) (string, error) {
	info, err := r.ProviderInfo(id)
	if err != nil {
		return "", err
	}
	return info.DefaultModel, nil
}

func (r *Registry) SupportedModels(id config.Provider) ([]string, error) {
	info, err := r.ProviderInfo(id)
	if err != nil {
		return nil, err
	}
	return info.Models, nil
}

// IsModelSupported is false for unknown providers instead of an error.
func (r *Registry) IsModelSupported(id config.Provider, model string) bool {
	info, ok := config.LookupProvider(id)
	return ok && info.SupportsModel(model)
}

func (r *Registry) EnvironmentKey(id config.Provider) (string, error) {
	info, err := r.ProviderInfo(id)
	if err != nil {
		return "", err
	}
	return info.EnvKey, nil
}
