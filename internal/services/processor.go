package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/prtitle/internal/config"
	"github.com/thomas-vilte/prtitle/internal/conventional"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/i18n"
	"github.com/thomas-vilte/prtitle/internal/logger"
	"github.com/thomas-vilte/prtitle/internal/models"
	"github.com/thomas-vilte/prtitle/internal/vcs"
	"golang.org/x/sync/errgroup"
)

const maxSuggestions = 3

// titleGenerator is the orchestration entry point, implemented by ai.Service.
type titleGenerator interface {
	GenerateTitles(ctx context.Context, req models.TitleGenerationRequest) (*models.TitleGenerationResponse, error)
}

// Trigger identifies the PR and who caused the workflow run.
type Trigger struct {
	PRNumber   int
	Actor      string
	ActorIsBot bool
}

type PRProcessor struct {
	github vcs.GitHubService
	ai     titleGenerator
	config *config.Config
	trans  *i18n.Translations
}

type ProcessorOption func(*PRProcessor)

func WithGitHubService(gh vcs.GitHubService) ProcessorOption {
	return func(p *PRProcessor) {
		p.github = gh
	}
}

func WithTitleGenerator(ai titleGenerator) ProcessorOption {
	return func(p *PRProcessor) {
		p.ai = ai
	}
}

func WithProcessorConfig(cfg *config.Config) ProcessorOption {
	return func(p *PRProcessor) {
		p.config = cfg
	}
}

func WithTranslations(trans *i18n.Translations) ProcessorOption {
	return func(p *PRProcessor) {
		p.trans = trans
	}
}

func NewPRProcessor(opts ...ProcessorOption) *PRProcessor {
	p := &PRProcessor{}
	for _, opt := range opts {
		opt(p)
	}
	if p.config == nil {
		p.config = config.Default()
	}
	return p
}

// Process runs the validate, suggest and dispatch pipeline for one PR.
// Failures of GitHub or the AI service end up in the result record; the
// returned error is reserved for a processor that was not wired correctly.
func (p *PRProcessor) Process(ctx context.Context, trigger Trigger) (*models.ProcessingResult, error) {
	if p.github == nil || p.ai == nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "PR processor is missing its GitHub or AI service", nil)
	}

	ctx = logger.With(ctx, "pr_number", trigger.PRNumber)

	if trigger.ActorIsBot {
		logger.Info(ctx, "skipping run triggered by a bot", "actor", trigger.Actor)
		return &models.ProcessingResult{ActionTaken: models.ActionSkipped}, nil
	}

	pr, err := p.github.GetPRInfo(ctx, trigger.PRNumber)
	if err != nil {
		return failed(&models.ProcessingResult{}, err), nil
	}

	result := &models.ProcessingResult{OriginalTitle: pr.Title}

	validation := conventional.Validate(pr.Title, p.config.ValidationOptions())
	result.IsConventional = validation.IsValid
	if validation.IsValid {
		logger.Info(ctx, "PR title follows Conventional Commits", "title", pr.Title)
	} else {
		logger.Info(ctx, "PR title does not follow Conventional Commits",
			"title", pr.Title,
			"errors", validation.Errors)
		for _, hint := range validation.Suggestions {
			logger.Debug(ctx, "title hint", "hint", hint)
		}
	}

	if p.config.SkipIfConventional && validation.IsValid {
		result.ActionTaken = models.ActionSkipped
		return result, nil
	}

	req := models.TitleGenerationRequest{
		OriginalTitle: pr.Title,
		PRDescription: describePR(pr),
		PRBody:        pr.Body,
		Options:       p.config.TitleOptions(),
	}
	req.ChangedFiles, req.DiffContent = p.fetchContext(ctx, pr.Number)

	resp, err := p.ai.GenerateTitles(ctx, req)
	if err != nil {
		return failed(result, err), nil
	}

	result.Suggestions = normalizeSuggestions(resp.Suggestions, p.config.ValidationOptions())
	result.Reasoning = resp.Reasoning
	if len(result.Suggestions) == 0 {
		return failed(result, domainErrors.ErrNoSuggestions), nil
	}

	cfg := p.config
	if cfg.Mode == config.ModeAuto && !p.github.CheckPermissions(ctx) {
		logger.Warn(ctx, "token cannot edit the pull request, falling back to suggest mode")
		cfg = cfg.WithMode(config.ModeSuggest)
	}

	switch cfg.Mode {
	case config.ModeAuto:
		p.updateTitle(ctx, cfg, pr, result)
	default:
		p.suggest(ctx, cfg, pr, validation, resp, result)
	}
	return result, nil
}

// fetchContext loads changed files and the diff concurrently. Either may
// come back empty; the prompt is built from whatever is available.
func (p *PRProcessor) fetchContext(ctx context.Context, prNumber int) ([]string, string) {
	var (
		g     errgroup.Group
		files []string
		diff  string
	)

	g.Go(func() error {
		f, err := p.github.GetChangedFiles(ctx, prNumber)
		if err != nil {
			logger.Warn(ctx, "could not fetch changed files", "error", err)
			return nil
		}
		files = f
		return nil
	})
	g.Go(func() error {
		d, err := p.github.GetPRDiff(ctx, prNumber)
		if err != nil {
			logger.Warn(ctx, "could not fetch PR diff", "error", err)
			return nil
		}
		diff = d
		return nil
	})
	_ = g.Wait()

	logger.Debug(ctx, "fetched PR context", "files", len(files), "diff_size", len(diff))
	return files, diff
}

func (p *PRProcessor) updateTitle(ctx context.Context, cfg *config.Config, pr *models.PRInfo, result *models.ProcessingResult) {
	best := result.Suggestions[0]
	if err := p.github.UpdatePRTitle(ctx, pr.Number, best); err != nil {
		failed(result, err)
		return
	}
	result.ActionTaken = models.ActionUpdated

	if !cfg.AutoComment {
		return
	}
	body := p.message("comment_auto_updated", 0, map[string]interface{}{
		"OldTitle": pr.Title,
		"NewTitle": best,
	})
	if _, err := p.github.CreateComment(ctx, pr.Number, body); err != nil {
		logger.Warn(ctx, "could not post follow-up comment", "error", err)
	}
}

func (p *PRProcessor) suggest(
	ctx context.Context,
	cfg *config.Config,
	pr *models.PRInfo,
	validation models.ValidationResult,
	resp *models.TitleGenerationResponse,
	result *models.ProcessingResult,
) {
	body := p.formatComment(ctx, cfg.CommentTemplate, CommentData{
		OriginalTitle: pr.Title,
		IsValid:       validation.IsValid,
		Errors:        validation.Errors,
		Suggestions:   result.Suggestions,
		Reasoning:     resp.Reasoning,
		Confidence:    resp.Confidence,
	})

	if _, err := p.github.CreateComment(ctx, pr.Number, body); err != nil {
		failed(result, err)
		return
	}
	result.ActionTaken = models.ActionCommented
}

func (p *PRProcessor) message(id string, count int, data map[string]interface{}) string {
	if p.trans == nil {
		trans, err := i18n.NewTranslations(config.LangEN)
		if err != nil {
			return id
		}
		p.trans = trans
	}
	return p.trans.GetMessage(id, count, data)
}

func failed(result *models.ProcessingResult, err error) *models.ProcessingResult {
	result.ActionTaken = models.ActionError
	result.ErrorMessage = err.Error()
	return result
}

func describePR(pr *models.PRInfo) string {
	var parts []string
	if pr.HeadRef != "" && pr.BaseRef != "" {
		parts = append(parts, fmt.Sprintf("Branch %s into %s", pr.HeadRef, pr.BaseRef))
	}
	if len(pr.Labels) > 0 {
		parts = append(parts, "labels: "+strings.Join(pr.Labels, ", "))
	}
	return strings.Join(parts, "; ")
}

// normalizeSuggestions trims, de-duplicates, caps and length-limits the AI output.
// Over-length titles are shortened at a word boundary and kept only if they still validate.
func normalizeSuggestions(in []string, opts models.ValidationOptions) []string {
	out := make([]string, 0, maxSuggestions)
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if opts.MaxLength > 0 && utf8.RuneCountInString(s) > opts.MaxLength {
			s = shortenTitle(s, opts.MaxLength)
			if !conventional.Validate(s, opts).IsValid {
				continue
			}
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// shortenTitle cuts s to at most maxLength runes without splitting a word.
func shortenTitle(s string, maxLength int) string {
	runes := []rune(s)
	cut := string(runes[:maxLength])
	if runes[maxLength] != ' ' {
		i := strings.LastIndexByte(cut, ' ')
		if i < 0 {
			return ""
		}
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
