package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/prtitle/internal/models"
)

const (
	maxBodyChars    = 1500
	maxDiffChars    = 2000
	maxPromptFiles  = 15
	truncatedMarker = "..."
)

// PromptData feeds the system prompt template.
type PromptData struct {
	Types         string
	RequireScope  bool
	IncludeScope  bool
	MaxLength     int
	MatchLanguage bool
	Schema        string
	CustomPrompt  string
}

func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const systemPromptTemplate = `You are an expert at writing pull request titles that follow the Conventional Commits specification.

# Rules
- Format: type(scope): description
- Allowed types: {{.Types}}
{{- if .RequireScope}}
- You MUST include a scope in parentheses, e.g. feat(api): add pagination
{{- else if .IncludeScope}}
- You MAY include a scope in parentheses and should add one when the change targets a single area
{{- else}}
- You MAY include a scope in parentheses when it adds clarity
{{- end}}
{{- if gt .MaxLength 0}}
- Each title must be at most {{.MaxLength}} characters long
{{- end}}
- Start the description with a lowercase letter, use the imperative mood and do not end it with a period
- Add "!" before the colon only for breaking changes
{{- if .MatchLanguage}}
- Write the description in the same language as the pull request title and description
{{- else}}
- Always write the description in English
{{- end}}
- Suggest between 1 and 3 titles, best first

# Output
Respond with raw JSON only, without markdown fences, matching this JSON schema:
{{.Schema}}
Example: {"suggestions": ["feat(auth): add OAuth2 login flow"], "reasoning": "The PR adds a new login flow", "confidence": 0.9}
{{- if .CustomPrompt}}

# Additional instructions
{{.CustomPrompt}}
{{- end}}
`

// BuildSystemPrompt renders the instructions shared by every provider.
func BuildSystemPrompt(opts models.TitleOptions) (string, error) {
	types := opts.PreferredTypes
	if len(types) == 0 {
		types = models.DefaultAllowedTypes
	}
	return RenderPrompt("system", systemPromptTemplate, PromptData{
		Types:         strings.Join(types, ", "),
		RequireScope:  opts.RequireScope,
		IncludeScope:  opts.IncludeScope,
		MaxLength:     opts.MaxLength,
		MatchLanguage: opts.MatchLanguage,
		Schema:        ResponseSchemaJSON(),
		CustomPrompt:  strings.TrimSpace(opts.CustomPrompt),
	})
}

// BuildUserPrompt concatenates the PR context, truncating large fields.
func BuildUserPrompt(req models.TitleGenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Original PR title: %q\n", req.OriginalTitle)

	if d := strings.TrimSpace(req.PRDescription); d != "" {
		fmt.Fprintf(&b, "\nPR description: %s\n", d)
	}
	if body := strings.TrimSpace(req.PRBody); body != "" {
		fmt.Fprintf(&b, "\nPR body:\n%s\n", truncate(body, maxBodyChars))
	}
	if diff := strings.TrimSpace(req.DiffContent); diff != "" {
		fmt.Fprintf(&b, "\nCode changes (diff):\n%s\n", truncate(diff, maxDiffChars))
	}
	if len(req.ChangedFiles) > 0 {
		b.WriteString("\nChanged files:\n")
		files := req.ChangedFiles
		if len(files) > maxPromptFiles {
			files = files[:maxPromptFiles]
		}
		for _, f := range files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		if extra := len(req.ChangedFiles) - len(files); extra > 0 {
			fmt.Fprintf(&b, "- ... and %d more files\n", extra)
		}
	}

	b.WriteString("\nGenerate improved pull request titles that follow the Conventional Commits format.")
	return b.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + truncatedMarker
}
