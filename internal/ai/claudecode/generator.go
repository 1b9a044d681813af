package claudecode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/thomas-vilte/prtitle/internal/ai"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
)

// Binary is the Claude Code CLI executable looked up in PATH.
const Binary = "claude"

var (
	_ ai.TextGenerator = (*Generator)(nil)
	_ ai.HealthChecker = (*Generator)(nil)
)

// Command describes one CLI invocation.
type Command struct {
	Name  string
	Args  []string
	Env   []string
	Stdin string
}

// Runner executes a command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = c.Env
	cmd.Stdin = strings.NewReader(c.Stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Generator shells out to the Claude Code CLI in print mode.
type Generator struct {
	name   string
	apiKey string
	runner Runner
}

type Option func(*Generator)

func WithRunner(r Runner) Option {
	return func(g *Generator) { g.runner = r }
}

func New(name string, cfg ai.ProviderConfig, opts ...Option) *Generator {
	g := &Generator{name: name, apiKey: cfg.APIKey, runner: ExecRunner{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Name() string {
	return g.name
}

func (g *Generator) Generate(ctx context.Context, req ai.CompletionRequest) (string, error) {
	args := []string{"-p", "--output-format", "text"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.System != "" {
		args = append(args, "--append-system-prompt", req.System)
	}

	out, err := g.runner.Run(ctx, Command{
		Name:  Binary,
		Args:  args,
		Env:   g.environ(),
		Stdin: req.Prompt,
	})
	if err != nil {
		logger.Debug(ctx, "claude CLI failed", "error", err, "model", req.Model)
		return "", classifyError(g.name, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", &domainErrors.ProviderError{Provider: g.name, Retryable: true, Err: errors.New("empty response")}
	}
	return text, nil
}

// Ping checks that the CLI is installed and runnable.
func (g *Generator) Ping(ctx context.Context) error {
	_, err := g.runner.Run(ctx, Command{Name: Binary, Args: []string{"--version"}, Env: g.environ()})
	if err != nil {
		return classifyError(g.name, err)
	}
	return nil
}

// environ scopes the API key to the child process.
func (g *Generator) environ() []string {
	env := os.Environ()
	if g.apiKey != "" {
		env = append(env, "ANTHROPIC_API_KEY="+g.apiKey)
	}
	return env
}

func classifyError(provider string, err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return &domainErrors.ProviderError{
			Provider: provider,
			Err:      fmt.Errorf("%s CLI not found in PATH: %w", Binary, err),
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &domainErrors.ProviderError{Provider: provider, Err: err}
	}
	// A non-zero exit is usually an API hiccup surfaced by the CLI.
	return &domainErrors.ProviderError{Provider: provider, Retryable: true, Err: err}
}
