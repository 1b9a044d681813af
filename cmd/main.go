package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/prtitle/internal/action"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/providers"
	"github.com/thomas-vilte/prtitle/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(context.Background(), os.Args); err != nil {
		action.Fail(os.Stdout, failureMessage(err))
		os.Exit(1)
	}
}

func newApp(stdout io.Writer, registryOpts ...providers.Option) *cli.Command {
	return &cli.Command{
		Name:    "prtitle",
		Version: version.Version,
		Usage:   "Validate pull request titles against Conventional Commits and suggest AI generated fixes",
		Flags:   inputFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAction(ctx, cliSource{cmd: cmd}, stdout, registryOpts...)
		},
		Commands: []*cli.Command{
			{
				Name:  "check-provider",
				Usage: "Check that the configured AI provider answers",
				Flags: inputFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return checkProvider(ctx, cliSource{cmd: cmd}, stdout, registryOpts...)
				},
			},
		},
	}
}

// failureMessage renders configuration problems in full and prefixes
// anything else so it is recognizable in the step log.
func failureMessage(err error) string {
	var cfgErr *domainErrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Format()
	}
	var actionErr *actionFailedError
	if errors.As(err, &actionErr) {
		return actionErr.Error()
	}
	return fmt.Sprintf("Action failed with error: %v", err)
}
