package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/thomas-vilte/prtitle/internal/logger"
)

// CommentData is exposed to custom comment templates.
type CommentData struct {
	OriginalTitle string
	IsValid       bool
	Errors        []string
	Suggestions   []string
	Reasoning     string
	Confidence    float64
}

// ConfidencePercent is Confidence as a rounded percentage.
func (d CommentData) ConfidencePercent() int {
	return int(math.Round(d.Confidence * 100))
}

func (p *PRProcessor) formatComment(ctx context.Context, customTemplate string, data CommentData) string {
	if strings.TrimSpace(customTemplate) != "" {
		body, err := renderTemplate(customTemplate, data)
		if err == nil {
			return body
		}
		logger.Warn(ctx, "custom comment template failed, using the default comment", "error", err)
	}
	return p.defaultComment(data)
}

func renderTemplate(text string, data CommentData) (string, error) {
	tmpl, err := template.New("comment").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse comment template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render comment template: %w", err)
	}
	return b.String(), nil
}

func (p *PRProcessor) defaultComment(data CommentData) string {
	var b strings.Builder

	b.WriteString(p.message("comment_header", 0, nil))
	b.WriteString("\n\n")

	intro := "comment_intro_invalid"
	if data.IsValid {
		intro = "comment_intro_valid"
	}
	b.WriteString(p.message(intro, 0, map[string]interface{}{"Title": data.OriginalTitle}))
	b.WriteString("\n\n")

	if len(data.Errors) > 0 {
		b.WriteString(p.message("comment_issues_header", len(data.Errors), nil))
		b.WriteString("\n")
		for _, e := range data.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString(p.message("comment_suggestions_header", len(data.Suggestions), nil))
	b.WriteString("\n")
	for i, s := range data.Suggestions {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, s)
	}
	b.WriteString("\n")

	if data.Reasoning != "" {
		b.WriteString(p.message("comment_reasoning", 0, map[string]interface{}{"Reasoning": data.Reasoning}))
		b.WriteString("\n\n")
	}
	if data.Confidence > 0 {
		b.WriteString(p.message("comment_confidence", 0, map[string]interface{}{"Confidence": data.ConfidencePercent()}))
		b.WriteString("\n\n")
	}

	b.WriteString("---\n")
	b.WriteString(p.message("comment_footer", 0, nil))
	b.WriteString("\n")
	return b.String()
}
