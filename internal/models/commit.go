package models

type (
	// ConventionalCommit is the parsed form of a title that matched the grammar.
	ConventionalCommit struct {
		Type        string
		Scope       string
		Breaking    bool
		Description string
	}

	// ValidationOptions controls how strict title validation is.
	// Zero values for MaxLength and MinDescriptionLength disable those checks.
	ValidationOptions struct {
		AllowedTypes         []string
		RequireScope         bool
		MaxLength            int
		MinDescriptionLength int
	}

	ValidationResult struct {
		IsValid     bool
		Errors      []string
		Suggestions []string
		Parsed      *ConventionalCommit
	}
)

// HasScope reports whether the commit carries a non-empty scope.
func (c ConventionalCommit) HasScope() bool {
	return c.Scope != ""
}

// String renders the commit back into its normalized title form.
func (c ConventionalCommit) String() string {
	s := c.Type
	if c.Scope != "" {
		s += "(" + c.Scope + ")"
	}
	if c.Breaking {
		s += "!"
	}
	return s + ": " + c.Description
}

// DefaultAllowedTypes is the type list used when none is configured.
var DefaultAllowedTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "test", "chore", "perf", "ci", "build", "revert",
}
