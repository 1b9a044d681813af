package models

import "time"

type (
	// PRInfo is the subset of pull request metadata the processor needs.
	PRInfo struct {
		Number  int
		Title   string
		Body    string
		Author  string
		HeadRef string
		BaseRef string
		Labels  []string
		IsDraft bool
	}

	// Comment is a posted issue comment.
	Comment struct {
		ID        int64
		Body      string
		Author    string
		CreatedAt time.Time
	}
)

type ActionTaken string

const (
	ActionUpdated   ActionTaken = "updated"
	ActionCommented ActionTaken = "commented"
	ActionSkipped   ActionTaken = "skipped"
	ActionError     ActionTaken = "error"
)

// ProcessingResult is the terminal record of a single PR run.
type ProcessingResult struct {
	IsConventional bool
	OriginalTitle  string
	Suggestions    []string
	Reasoning      string
	ActionTaken    ActionTaken
	ErrorMessage   string
}
