// Package action holds the GitHub Actions runtime plumbing: environment,
// event payload, step outputs and workflow commands.
package action

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
)

// Runner holds the settings read by every command, inside a workflow or not.
type Runner struct {
	InActions   bool `env:"GITHUB_ACTIONS,default=false"`
	RunnerDebug bool `env:"RUNNER_DEBUG,default=false"`
}

// Env is the runner-provided context of the current job.
type Env struct {
	Runner

	Repository string `env:"GITHUB_REPOSITORY,required"`
	EventPath  string `env:"GITHUB_EVENT_PATH"`
	EventName  string `env:"GITHUB_EVENT_NAME"`
	Actor      string `env:"GITHUB_ACTOR"`
	OutputPath string `env:"GITHUB_OUTPUT"`
	APIURL     string `env:"GITHUB_API_URL,default=https://api.github.com"`
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL,default=https://api.github.com/graphql"`
}

// LoadEnv decodes the job environment. A nil lookuper reads the process env.
func LoadEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := process(ctx, &env, lookuper); err != nil {
		return nil, err
	}
	return &env, nil
}

// LoadRunner decodes only the runner settings, for commands that never talk to GitHub.
func LoadRunner(ctx context.Context, lookuper envconfig.Lookuper) (*Runner, error) {
	var r Runner
	if err := process(ctx, &r, lookuper); err != nil {
		return nil, err
	}
	return &r, nil
}

func process(ctx context.Context, target any, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   target,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("error reading runner environment: %w", err)
	}
	return nil
}

// OwnerRepo splits GITHUB_REPOSITORY into owner and name.
func (e *Env) OwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(e.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid GITHUB_REPOSITORY %q, expected owner/repo", e.Repository)
	}
	return owner, repo, nil
}

type (
	// Event is the subset of the webhook payload the action reads.
	Event struct {
		Number      int          `json:"number"`
		PullRequest *PullRequest `json:"pull_request"`
		Sender      Sender       `json:"sender"`
	}

	PullRequest struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		User   Sender `json:"user"`
	}

	Sender struct {
		Login string `json:"login"`
		Type  string `json:"type"`
	}
)

// ReadEvent parses the payload at GITHUB_EVENT_PATH. An unset path yields an empty event.
func (e *Env) ReadEvent() (*Event, error) {
	if e.EventPath == "" {
		return &Event{}, nil
	}
	data, err := os.ReadFile(e.EventPath)
	if err != nil {
		return nil, fmt.Errorf("error reading event payload: %w", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("error decoding event payload: %w", err)
	}
	return &ev, nil
}

// PRNumber resolves the pull request number, preferring override when positive.
func (ev *Event) PRNumber(override int) (int, error) {
	switch {
	case override > 0:
		return override, nil
	case ev.PullRequest != nil && ev.PullRequest.Number > 0:
		return ev.PullRequest.Number, nil
	case ev.Number > 0:
		return ev.Number, nil
	default:
		return 0, domainErrors.ErrNoPullRequest
	}
}

// Actor returns who triggered the run, falling back to the runner's GITHUB_ACTOR.
func (ev *Event) Actor(env *Env) Sender {
	if ev.Sender.Login != "" {
		return ev.Sender
	}
	return Sender{Login: env.Actor}
}

// IsBot reports whether the sender is an app or bot account.
func (s Sender) IsBot() bool {
	return strings.EqualFold(s.Type, "Bot") || strings.HasSuffix(s.Login, "[bot]")
}
