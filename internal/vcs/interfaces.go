package vcs

import (
	"context"

	"github.com/thomas-vilte/prtitle/internal/models"
)

// GitHubService is the pull request surface the processor works against.
type GitHubService interface {
	// GetPRInfo returns the PR metadata.
	GetPRInfo(ctx context.Context, prNumber int) (*models.PRInfo, error)
	// UpdatePRTitle replaces the PR title.
	UpdatePRTitle(ctx context.Context, prNumber int, title string) error
	// CreateComment posts an issue comment on the PR.
	CreateComment(ctx context.Context, prNumber int, body string) (*models.Comment, error)
	// GetChangedFiles lists the file names touched by the PR.
	GetChangedFiles(ctx context.Context, prNumber int) ([]string, error)
	// GetPRDiff returns the unified diff of the PR.
	GetPRDiff(ctx context.Context, prNumber int) (string, error)
	// CheckPermissions reports whether the token can edit the PR. It never fails;
	// any error is reported as false.
	CheckPermissions(ctx context.Context) bool
}
