package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/prtitle/internal/action"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/models"
	"github.com/urfave/cli/v3"
)

func TestInputEnv(t *testing.T) {
	assert.Equal(t, "INPUT_GITHUB-TOKEN", inputEnv("github-token"))
	assert.Equal(t, "INPUT_SKIP-IF-CONVENTIONAL", inputEnv("skip-if-conventional"))
}

func TestCliSource(t *testing.T) {
	t.Setenv("INPUT_MODE", "auto")
	t.Setenv("INPUT_MODEL", "")

	var got map[string]string
	cmd := &cli.Command{
		Name:  "prtitle",
		Flags: inputFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			src := cliSource{cmd: cmd}
			got = map[string]string{}
			for _, name := range []string{"mode", "model", "ai-provider", "max-length"} {
				if v, ok := src.Lookup(name); ok {
					got[name] = v
				}
			}
			return nil
		},
	}

	err := cmd.Run(context.Background(), []string{"prtitle", "--ai-provider", "groq"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mode": "auto", "ai-provider": "groq"}, got)
}

func TestWriteOutputs(t *testing.T) {
	t.Run("should write every output to the output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		result := &models.ProcessingResult{
			IsConventional: false,
			OriginalTitle:  "Add login",
			Suggestions:    []string{"feat: add login", "feat(auth): add login"},
			ActionTaken:    models.ActionCommented,
		}

		require.NoError(t, writeOutputs(action.NewOutputs(path, nil), result))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "is-conventional<<")
		assert.Contains(t, content, "\nfalse\n")
		assert.Contains(t, content, `["feat: add login","feat(auth): add login"]`)
		assert.Contains(t, content, "\nAdd login\n")
		assert.Contains(t, content, "\ncommented\n")
		assert.NotContains(t, content, "error-message")
	})

	t.Run("should include the error message when present", func(t *testing.T) {
		var buf bytes.Buffer
		result := &models.ProcessingResult{ActionTaken: models.ActionError, ErrorMessage: "Failed to get PR info: 404"}

		require.NoError(t, writeOutputs(action.NewOutputs("", &buf), result))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, []string{
			"is-conventional=false",
			"suggested-titles=[]",
			"original-title=",
			"action-taken=error",
			"error-message=Failed to get PR info: 404",
		}, lines)
	})
}

func TestFailureMessage(t *testing.T) {
	cfgErr := &domainErrors.ConfigurationError{}
	cfgErr.Add("github-token", "is required", "Pass secrets.GITHUB_TOKEN")

	assert.Contains(t, failureMessage(cfgErr), "Configuration validation failed:")
	assert.Equal(t, "PR title processing failed: boom", failureMessage(&actionFailedError{message: "boom"}))
	assert.Equal(t, "Action failed with error: unexpected", failureMessage(errors.New("unexpected")))
}
