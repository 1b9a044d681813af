package regex

import "regexp"

var (
	// Conventional Commits title: type(scope)!: description
	ConventionalCommit = regexp.MustCompile(`(?i)^([a-z0-9-]+)(?:\(([^()]+)\))?(!)?: (.+)$`)

	// Allowed commit type token
	CommitType = regexp.MustCompile(`^[a-z0-9-]+$`)

	// Leading list markers and quotes an LLM may put around a title line
	ListMarker = regexp.MustCompile("^(?:[-*+•]|\\d+[.)])\\s+")

	// AI and JSON parsing
	MarkdownJSONBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)```")
	CodeFence         = regexp.MustCompile("```(?:json|JSON)?")
	JSONString        = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
	TrailingComma     = regexp.MustCompile(`,\s*([}\]])`)
)
