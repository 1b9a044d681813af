package conventional

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/prtitle/internal/models"
)

var keywordHints = []struct {
	keywords []string
	hint     string
}{
	{[]string{"fix", "bug", "error"}, "Consider using 'fix:' for bug fixes"},
	{[]string{"test", "spec"}, "Consider using 'test:' for test changes"},
	{[]string{"doc", "readme"}, "Consider using 'docs:' for documentation changes"},
	{[]string{"add", "implement", "create"}, "Consider using 'feat:' for new features"},
	{[]string{"update", "improve", "enhance"}, "Consider using 'feat:' or 'refactor:' for improvements"},
}

// GenerateSuggestions returns keyword-based hints for fixing a title.
// It is advisory only and works without any AI provider.
func GenerateSuggestions(title string, opts models.ValidationOptions) []string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return []string{"Please provide a meaningful title for your pull request"}
	}

	lower := strings.ToLower(trimmed)
	var out []string

	matched := false
	for _, kh := range keywordHints {
		if containsAny(lower, kh.keywords) {
			out = append(out, kh.hint)
			matched = true
			break
		}
	}
	if !matched {
		types := typesOrDefault(opts.AllowedTypes)
		if len(types) > 5 {
			types = types[:5]
		}
		out = append(out, "Consider using one of: "+strings.Join(types, ", "))
	}

	if opts.MaxLength > 0 && utf8.RuneCountInString(trimmed) > opts.MaxLength {
		out = append(out, fmt.Sprintf("Consider shortening the title to %d characters or less", opts.MaxLength))
	}

	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
