package providers

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/prtitle/internal/action"
	"github.com/thomas-vilte/prtitle/internal/config"
	"github.com/thomas-vilte/prtitle/internal/vcs"
	"github.com/thomas-vilte/prtitle/internal/vcs/github"
)

// NewVCSClient creates the GitHub client for the repository the workflow runs in.
// Enterprise hosts are picked up from the runner's API URLs.
func NewVCSClient(ctx context.Context, env *action.Env, cfg *config.Config) (vcs.GitHubService, error) {
	owner, repo, err := env.OwnerRepo()
	if err != nil {
		return nil, fmt.Errorf("error getting repo info: %w", err)
	}

	client, err := github.NewGitHubClient(ctx, github.Options{
		Owner:      owner,
		Repo:       repo,
		Token:      cfg.GitHubToken,
		APIURL:     env.APIURL,
		GraphQLURL: env.GraphQLURL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
