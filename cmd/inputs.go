package main

import (
	"strings"

	"github.com/thomas-vilte/prtitle/internal/config"
	"github.com/urfave/cli/v3"
)

var inputNames = []string{
	config.InputGitHubToken,
	config.InputPRNumber,
	config.InputProvider,
	config.InputAPIKey,
	config.InputModel,
	config.InputBaseURL,
	config.InputTemperature,
	config.InputMaxTokens,
	config.InputMaxRetries,
	config.InputMode,
	config.InputAllowedTypes,
	config.InputRequireScope,
	config.InputMaxLength,
	config.InputMinDescriptionLength,
	config.InputCustomPrompt,
	config.InputIncludeScope,
	config.InputSkipIfConventional,
	config.InputCommentTemplate,
	config.InputAutoComment,
	config.InputMatchLanguage,
	config.InputLanguage,
	config.InputDebug,
	config.InputFailOnError,
	config.InputConfigFile,
	config.InputVertexProject,
	config.InputVertexLocation,
}

// inputEnv is the variable the runner uses for an action input.
func inputEnv(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// inputFlags declares every action input as a string flag so parsing and
// validation stay in the config package.
func inputFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(inputNames))
	for _, name := range inputNames {
		flags = append(flags, &cli.StringFlag{
			Name:    name,
			Sources: cli.EnvVars(inputEnv(name)),
		})
	}
	return flags
}

// cliSource adapts parsed flags to config.Source.
type cliSource struct {
	cmd *cli.Command
}

func (s cliSource) Lookup(name string) (string, bool) {
	if !s.cmd.IsSet(name) {
		return "", false
	}
	v := s.cmd.String(name)
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
