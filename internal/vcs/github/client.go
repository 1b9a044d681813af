package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	domainErrors "github.com/thomas-vilte/prtitle/internal/errors"
	"github.com/thomas-vilte/prtitle/internal/logger"
	"github.com/thomas-vilte/prtitle/internal/models"
	"github.com/thomas-vilte/prtitle/internal/vcs"
	"github.com/thomas-vilte/prtitle/internal/version"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIURL     = "https://api.github.com"
	DefaultGraphQLURL = "https://api.github.com/graphql"

	filesPerPage = 100
	// ListFiles stops at 3000 files regardless of paging.
	maxFilePages = 30
)

var _ vcs.GitHubService = (*GitHubClient)(nil)

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	GetRaw(ctx context.Context, owner, repo string, number int, opts github.RawOptions) (string, *github.Response, error)
}

type IssuesService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// GraphQLQuerier is the subset of githubv4.Client used for the permission probe.
type GraphQLQuerier interface {
	Query(ctx context.Context, q any, variables map[string]any) error
}

type GitHubClient struct {
	prService     PullRequestsService
	issuesService IssuesService
	graphql       GraphQLQuerier
	owner         string
	repo          string
}

// Options configures NewGitHubClient. Empty URLs point at github.com.
type Options struct {
	Owner      string
	Repo       string
	Token      string
	APIURL     string
	GraphQLURL string
}

func NewGitHubClient(ctx context.Context, opts Options) (*GitHubClient, error) {
	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	client.UserAgent = version.UserAgent()
	if opts.APIURL != "" && strings.TrimSuffix(opts.APIURL, "/") != DefaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid GitHub API URL", err).
				WithContext("api_url", opts.APIURL)
		}
	}

	gql := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" && opts.GraphQLURL != DefaultGraphQLURL {
		gql = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return NewGitHubClientWithServices(client.PullRequests, client.Issues, gql, opts.Owner, opts.Repo), nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	issuesService IssuesService,
	graphql GraphQLQuerier,
	owner string,
	repo string,
) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		issuesService: issuesService,
		graphql:       graphql,
		owner:         owner,
		repo:          repo,
	}
}

func (ghc *GitHubClient) GetPRInfo(ctx context.Context, prNumber int) (*models.PRInfo, error) {
	logger.Debug(ctx, "fetching github pull request",
		"owner", ghc.owner,
		"repo", ghc.repo,
		"pr_number", prNumber)

	pr, resp, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("Failed to get PR info: %w", ghc.classify(resp, err, "get PR info", prNumber))
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	return &models.PRInfo{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		Author:  pr.GetUser().GetLogin(),
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
		Labels:  labels,
		IsDraft: pr.GetDraft(),
	}, nil
}

func (ghc *GitHubClient) UpdatePRTitle(ctx context.Context, prNumber int, title string) error {
	_, resp, err := ghc.prService.Edit(ctx, ghc.owner, ghc.repo, prNumber, &github.PullRequest{
		Title: github.Ptr(title),
	})
	if err != nil {
		return fmt.Errorf("Failed to update PR title: %w", ghc.classify(resp, err, "update PR title", prNumber))
	}

	logger.Info(ctx, "updated PR title", "pr_number", prNumber, "title", title)
	return nil
}

func (ghc *GitHubClient) CreateComment(ctx context.Context, prNumber int, body string) (*models.Comment, error) {
	comment, resp, err := ghc.issuesService.CreateComment(ctx, ghc.owner, ghc.repo, prNumber, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to create comment: %w", ghc.classify(resp, err, "create comment", prNumber))
	}

	return &models.Comment{
		ID:        comment.GetID(),
		Body:      comment.GetBody(),
		Author:    comment.GetUser().GetLogin(),
		CreatedAt: comment.GetCreatedAt().Time,
	}, nil
}

func (ghc *GitHubClient) GetChangedFiles(ctx context.Context, prNumber int) ([]string, error) {
	opts := &github.ListOptions{PerPage: filesPerPage}
	var files []string

	for page := 0; page < maxFilePages; page++ {
		batch, resp, err := ghc.prService.ListFiles(ctx, ghc.owner, ghc.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("Failed to get changed files: %w", ghc.classify(resp, err, "get changed files", prNumber))
		}
		for _, f := range batch {
			files = append(files, f.GetFilename())
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

func (ghc *GitHubClient) GetPRDiff(ctx context.Context, prNumber int) (string, error) {
	diff, resp, err := ghc.prService.GetRaw(ctx, ghc.owner, ghc.repo, prNumber, github.RawOptions{Type: github.Diff})
	if err != nil {
		// GitHub answers 406 when the diff is too large to render.
		if resp != nil && resp.StatusCode == http.StatusNotAcceptable {
			logger.Warn(ctx, "PR diff too large, continuing without it", "pr_number", prNumber)
			return "", nil
		}
		return "", fmt.Errorf("Failed to get PR diff: %w", ghc.classify(resp, err, "get PR diff", prNumber))
	}
	return diff, nil
}

type permissionQuery struct {
	Repository struct {
		ViewerPermission githubv4.RepositoryPermission
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// CheckPermissions asks GitHub which permission the token holds on the repository.
func (ghc *GitHubClient) CheckPermissions(ctx context.Context) bool {
	var q permissionQuery
	err := ghc.graphql.Query(ctx, &q, map[string]any{
		"owner": githubv4.String(ghc.owner),
		"name":  githubv4.String(ghc.repo),
	})
	if err != nil {
		logger.Debug(ctx, "permission check failed", "error", err)
		return false
	}

	switch q.Repository.ViewerPermission {
	case githubv4.RepositoryPermissionAdmin,
		githubv4.RepositoryPermissionMaintain,
		githubv4.RepositoryPermissionWrite:
		return true
	default:
		logger.Debug(ctx, "token lacks write permission", "permission", q.Repository.ViewerPermission)
		return false
	}
}

func (ghc *GitHubClient) classify(resp *github.Response, err error, operation string, prNumber int) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domainErrors.ErrGitHubRateLimit.WithError(err).
			WithContext("operation", operation).
			WithContext("reset", rateErr.Rate.Reset.Time)
	}
	if resp == nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domainErrors.ErrGitHubTokenInvalid.WithError(err).
			WithContext("operation", operation)
	case http.StatusForbidden:
		return domainErrors.ErrGitHubInsufficientPerms.WithError(err).
			WithContext("operation", operation).
			WithContext("repo", ghc.owner+"/"+ghc.repo)
	case http.StatusNotFound:
		return domainErrors.ErrPullRequestNotFound.WithError(err).
			WithContext("operation", operation).
			WithContext("pr_number", prNumber).
			WithContext("repo", ghc.owner+"/"+ghc.repo)
	case http.StatusTooManyRequests:
		return domainErrors.ErrGitHubRateLimit.WithError(err).
			WithContext("operation", operation).
			WithContext("retry_after", resp.Header.Get("Retry-After"))
	}
	return err
}
