// Package conventional parses and validates pull request titles against the
// Conventional Commits format type(scope)!: description.
package conventional

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thomas-vilte/prtitle/internal/models"
	"github.com/thomas-vilte/prtitle/internal/regex"
)

const (
	ErrEmptyTitle   = "Title cannot be empty"
	ErrInvalidTitle = "Title does not follow Conventional Commits format"
)

// Parse returns nil when title does not match the grammar.
func Parse(title string) *models.ConventionalCommit {
	m := regex.ConventionalCommit.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return nil
	}

	description := strings.TrimSpace(m[4])
	if description == "" {
		return nil
	}

	return &models.ConventionalCommit{
		Type:        strings.ToLower(m[1]),
		Scope:       strings.TrimSpace(m[2]),
		Breaking:    m[3] == "!",
		Description: description,
	}
}

// IsConventional reports whether title parses, ignoring semantic rules.
func IsConventional(title string) bool {
	return Parse(title) != nil
}

// Validate runs every rule in order and collects all violations.
// Only an empty title or an unparseable title stop the checks early.
func Validate(title string, opts models.ValidationOptions) models.ValidationResult {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return models.ValidationResult{
			Errors: []string{ErrEmptyTitle},
		}
	}

	var errs, hints []string
	add := func(err, hint string) {
		errs = append(errs, err)
		if hint != "" {
			hints = append(hints, hint)
		}
	}

	if opts.MaxLength > 0 {
		if n := utf8.RuneCountInString(trimmed); n > opts.MaxLength {
			add(fmt.Sprintf("Title exceeds maximum length of %d characters", opts.MaxLength),
				fmt.Sprintf("Shorten the title to %d characters or less (currently %d)", opts.MaxLength, n))
		}
	}

	parsed := Parse(trimmed)
	if parsed == nil {
		add(ErrInvalidTitle, "Use the format: type(scope): description")
		hints = append(hints, "Allowed types: "+strings.Join(typesOrDefault(opts.AllowedTypes), ", "))
		return models.ValidationResult{
			Errors:      errs,
			Suggestions: hints,
		}
	}

	if len(opts.AllowedTypes) > 0 && !slices.Contains(opts.AllowedTypes, parsed.Type) {
		add(fmt.Sprintf("Type %q is not allowed", parsed.Type),
			"Use one of: "+strings.Join(opts.AllowedTypes, ", "))
	}

	if opts.RequireScope && !parsed.HasScope() {
		add("Scope is required",
			fmt.Sprintf("Add a scope in parentheses, e.g. %s(api): %s", parsed.Type, parsed.Description))
	}

	if opts.MinDescriptionLength > 0 && utf8.RuneCountInString(parsed.Description) < opts.MinDescriptionLength {
		add(fmt.Sprintf("Description must be at least %d characters", opts.MinDescriptionLength),
			"Describe the change in more detail")
	}

	if strings.HasSuffix(parsed.Description, ".") {
		add("Description should not end with a period", "Remove the trailing period")
	}

	if first, _ := utf8.DecodeRuneInString(parsed.Description); unicode.ToLower(first) != first {
		add("Description should start with a lowercase letter",
			fmt.Sprintf("Change %q to %q", string(first), string(unicode.ToLower(first))))
	}

	result := models.ValidationResult{
		IsValid:     len(errs) == 0,
		Errors:      errs,
		Suggestions: hints,
	}
	if result.IsValid {
		result.Parsed = parsed
	}
	return result
}

func typesOrDefault(types []string) []string {
	if len(types) == 0 {
		return models.DefaultAllowedTypes
	}
	return types
}
