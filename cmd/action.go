package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/thomas-vilte/prtitle/internal/action"
	"github.com/thomas-vilte/prtitle/internal/ai"
	"github.com/thomas-vilte/prtitle/internal/config"
	"github.com/thomas-vilte/prtitle/internal/i18n"
	"github.com/thomas-vilte/prtitle/internal/logger"
	"github.com/thomas-vilte/prtitle/internal/models"
	"github.com/thomas-vilte/prtitle/internal/providers"
	"github.com/thomas-vilte/prtitle/internal/services"
)

const (
	OutputIsConventional  = "is-conventional"
	OutputSuggestedTitles = "suggested-titles"
	OutputOriginalTitle   = "original-title"
	OutputActionTaken     = "action-taken"
	OutputErrorMessage    = "error-message"
)

// actionFailedError is returned when the run recorded an error outcome and
// fail-on-error is set.
type actionFailedError struct {
	message string
}

func (e *actionFailedError) Error() string {
	return "PR title processing failed: " + e.message
}

type runtime struct {
	env *action.Env
	cfg *config.Config
}

// setup loads the job environment and inputs. Without needsGitHub only the
// runner settings are read and the token is optional.
func setup(ctx context.Context, src config.Source, needsGitHub bool) (context.Context, *runtime, error) {
	var (
		env    *action.Env
		runner *action.Runner
		opts   []config.LoadOption
		err    error
	)
	if needsGitHub {
		env, err = action.LoadEnv(ctx, nil)
		if err != nil {
			return ctx, nil, err
		}
		runner = &env.Runner
	} else {
		runner, err = action.LoadRunner(ctx, nil)
		if err != nil {
			return ctx, nil, err
		}
		opts = append(opts, config.WithoutGitHubToken())
	}

	cfg, err := config.Load(src, opts...)
	if err != nil {
		return ctx, nil, err
	}

	l := logger.Initialize(logger.Options{
		Debug:       cfg.Debug || runner.RunnerDebug,
		Verbose:     true,
		Annotations: runner.InActions,
	})
	ctx = logger.WithLogger(ctx, l)

	return ctx, &runtime{env: env, cfg: cfg}, nil
}

func runAction(ctx context.Context, src config.Source, stdout io.Writer, registryOpts ...providers.Option) error {
	ctx, rt, err := setup(ctx, src, true)
	if err != nil {
		return err
	}
	env, cfg := rt.env, rt.cfg

	event, err := env.ReadEvent()
	if err != nil {
		return err
	}
	prNumber, err := event.PRNumber(cfg.PRNumber)
	if err != nil {
		return err
	}
	actor := event.Actor(env)

	trans, err := i18n.NewTranslations(cfg.Language)
	if err != nil {
		return err
	}

	gh, err := providers.NewVCSClient(ctx, env, cfg)
	if err != nil {
		return err
	}

	registry := providers.NewRegistry(registryOpts...)
	warnUnknownModel(ctx, registry, cfg)

	processor := services.NewPRProcessor(
		services.WithGitHubService(gh),
		services.WithTitleGenerator(ai.NewServiceFromConfig(registry, cfg)),
		services.WithProcessorConfig(cfg),
		services.WithTranslations(trans),
	)

	logger.Info(ctx, "processing pull request",
		"repository", env.Repository,
		"pr_number", prNumber,
		"provider", cfg.Provider,
		"mode", cfg.Mode)

	result, err := processor.Process(ctx, services.Trigger{
		PRNumber:   prNumber,
		Actor:      actor.Login,
		ActorIsBot: actor.IsBot(),
	})
	if err != nil {
		return err
	}

	if err := writeOutputs(action.NewOutputs(env.OutputPath, stdout), result); err != nil {
		return err
	}

	logger.Info(ctx, "pull request processed", "action_taken", result.ActionTaken)
	if result.ActionTaken == models.ActionError {
		if cfg.FailOnError {
			return &actionFailedError{message: result.ErrorMessage}
		}
		action.Warning(stdout, "PR title processing failed: "+result.ErrorMessage)
	}
	return nil
}

func warnUnknownModel(ctx context.Context, registry *providers.Registry, cfg *config.Config) {
	if cfg.Model == "" || registry.IsModelSupported(cfg.Provider, cfg.Model) {
		return
	}
	known, _ := registry.SupportedModels(cfg.Provider)
	logger.Warn(ctx, "model is not in the known list for this provider, using it anyway",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"known_models", known)
}

func checkProvider(ctx context.Context, src config.Source, stdout io.Writer, registryOpts ...providers.Option) error {
	ctx, rt, err := setup(ctx, src, false)
	if err != nil {
		return err
	}
	cfg := rt.cfg

	registry := providers.NewRegistry(registryOpts...)
	info, err := registry.ProviderInfo(cfg.Provider)
	if err != nil {
		return err
	}
	model := cfg.Model
	if model == "" {
		model = info.DefaultModel
	}

	healthy := registry.HealthCheck(ctx, cfg.Provider, ai.ProviderConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: ai.Float(cfg.Temperature),
		Project:     cfg.VertexProject,
		Location:    cfg.VertexLocation,
	})
	if !healthy {
		return fmt.Errorf("%s (%s) did not answer the health check", info.Name, model)
	}
	_, err = fmt.Fprintf(stdout, "%s (%s) is healthy\n", info.Name, model)
	return err
}

func writeOutputs(out *action.Outputs, result *models.ProcessingResult) error {
	suggestions := result.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	encoded, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("error encoding suggestions: %w", err)
	}

	outputs := [][2]string{
		{OutputIsConventional, strconv.FormatBool(result.IsConventional)},
		{OutputSuggestedTitles, string(encoded)},
		{OutputOriginalTitle, result.OriginalTitle},
		{OutputActionTaken, string(result.ActionTaken)},
	}
	if result.ErrorMessage != "" {
		outputs = append(outputs, [2]string{OutputErrorMessage, result.ErrorMessage})
	}

	for _, o := range outputs {
		if err := out.Set(o[0], o[1]); err != nil {
			return err
		}
	}
	return nil
}
