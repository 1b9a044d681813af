package conventional

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/prtitle/internal/models"
)

func TestParse(t *testing.T) {
	t.Run("should parse type, scope, breaking marker and description", func(t *testing.T) {
		c := Parse("  Feat(API )!: drop v1 endpoints  ")

		require.NotNil(t, c)
		assert.Equal(t, models.ConventionalCommit{
			Type:        "feat",
			Scope:       "API",
			Breaking:    true,
			Description: "drop v1 endpoints",
		}, *c)
	})

	t.Run("should accept digits and hyphens in type and scope", func(t *testing.T) {
		c := Parse("build-2(ci-runner3): bump go")

		require.NotNil(t, c)
		assert.Equal(t, "build-2", c.Type)
		assert.Equal(t, "ci-runner3", c.Scope)
	})

	tests := []string{
		"",
		"   ",
		"feat add feature",
		"feat:",
		"feat: ",
		"feat:no space",
		"feat(): empty scope",
		"(scope): missing type",
	}
	for _, title := range tests {
		t.Run(fmt.Sprintf("should reject %q", title), func(t *testing.T) {
			assert.Nil(t, Parse(title))
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	types := []string{"feat", "FIX", "Docs", "v2"}
	scopes := []string{"", "auth", " core "}
	descriptions := []string{"add x", "handle edge case ", "Ünicode ok"}

	for _, typ := range types {
		for _, scope := range scopes {
			for _, breaking := range []bool{false, true} {
				for _, desc := range descriptions {
					s := typ
					if scope != "" {
						s += "(" + scope + ")"
					}
					if breaking {
						s += "!"
					}
					s += ": " + desc

					c := Parse(s)
					require.NotNil(t, c, s)
					assert.Equal(t, strings.ToLower(typ), c.Type, s)
					assert.Equal(t, strings.TrimSpace(scope), c.Scope, s)
					assert.Equal(t, breaking, c.Breaking, s)
					assert.Equal(t, strings.TrimSpace(desc), c.Description, s)
				}
			}
		}
	}
}

func TestValidate(t *testing.T) {
	defaults := models.ValidationOptions{AllowedTypes: models.DefaultAllowedTypes}

	t.Run("should accept a simple conventional title", func(t *testing.T) {
		r := Validate("feat: add new feature", defaults)

		assert.True(t, r.IsValid)
		assert.Empty(t, r.Errors)
		assert.Empty(t, r.Suggestions)
		require.NotNil(t, r.Parsed)
	})

	t.Run("should expose the parsed scope", func(t *testing.T) {
		r := Validate("fix(auth): resolve login issue", defaults)

		assert.True(t, r.IsValid)
		require.NotNil(t, r.Parsed)
		assert.Equal(t, "auth", r.Parsed.Scope)
	})

	t.Run("should stop on empty title", func(t *testing.T) {
		r := Validate("", models.ValidationOptions{})

		assert.False(t, r.IsValid)
		assert.Equal(t, []string{"Title cannot be empty"}, r.Errors)
		assert.Nil(t, r.Parsed)
	})

	t.Run("should report length and keep checking", func(t *testing.T) {
		r := Validate("feat: "+strings.Repeat("a", 100), models.ValidationOptions{MaxLength: 50})

		assert.False(t, r.IsValid)
		assert.Equal(t, []string{"Title exceeds maximum length of 50 characters"}, r.Errors)
		assert.Nil(t, r.Parsed)
	})

	t.Run("should stop after a format error", func(t *testing.T) {
		r := Validate("Added a feature.", models.ValidationOptions{MaxLength: 10, RequireScope: true})

		assert.Equal(t, []string{
			"Title exceeds maximum length of 10 characters",
			"Title does not follow Conventional Commits format",
		}, r.Errors)
		assert.Contains(t, r.Suggestions, "Use the format: type(scope): description")
		assert.Contains(t, r.Suggestions, "Allowed types: "+strings.Join(models.DefaultAllowedTypes, ", "))
	})

	t.Run("should accumulate semantic errors in check order", func(t *testing.T) {
		r := Validate("wip: Do.", models.ValidationOptions{
			AllowedTypes:         []string{"feat", "fix"},
			RequireScope:         true,
			MinDescriptionLength: 5,
		})

		assert.False(t, r.IsValid)
		assert.Equal(t, []string{
			`Type "wip" is not allowed`,
			"Scope is required",
			"Description must be at least 5 characters",
			"Description should not end with a period",
			"Description should start with a lowercase letter",
		}, r.Errors)
		assert.Len(t, r.Suggestions, 5)
		assert.Nil(t, r.Parsed, "semantically invalid titles must not expose parsed")
	})

	t.Run("should skip the type check without allowed types", func(t *testing.T) {
		r := Validate("anything: goes here", models.ValidationOptions{})
		assert.True(t, r.IsValid)
	})
}

func TestValidate_Idempotent(t *testing.T) {
	opts := models.ValidationOptions{AllowedTypes: []string{"feat"}, RequireScope: true, MaxLength: 20}
	for _, title := range []string{"", "feat: ok", "fix: Nope.", "not conventional at all", "feat(x): fine"} {
		first := Validate(title, opts)
		second := Validate(title, opts)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Validate(%q) not idempotent (-first +second):\n%s", title, diff)
		}
	}
}

func TestValidate_Monotonic(t *testing.T) {
	loose := models.ValidationOptions{MaxLength: 100}
	tight := []models.ValidationOptions{
		{MaxLength: 20},
		{MaxLength: 100, AllowedTypes: []string{"fix"}},
		{MaxLength: 100, RequireScope: true},
		{MaxLength: 100, MinDescriptionLength: 50},
	}
	titles := []string{"feat: Add something new.", "chore: x", "this is not conventional and it is long", ""}

	for _, title := range titles {
		base := Validate(title, loose)
		for _, opts := range tight {
			got := Validate(title, opts)
			for _, e := range base.Errors {
				assert.Contains(t, got.Errors, e, "tightening %+v removed %q for %q", opts, e, title)
			}
		}
	}
}

func TestGenerateSuggestions(t *testing.T) {
	tests := []struct {
		name  string
		title string
		opts  models.ValidationOptions
		want  []string
	}{
		{
			name:  "empty title",
			title: " ",
			want:  []string{"Please provide a meaningful title for your pull request"},
		},
		{
			name:  "bug keywords",
			title: "Fixed crash on startup",
			want:  []string{"Consider using 'fix:' for bug fixes"},
		},
		{
			name:  "documentation keywords",
			title: "README tweaks",
			want:  []string{"Consider using 'docs:' for documentation changes"},
		},
		{
			name:  "feature keywords",
			title: "Implement caching",
			want:  []string{"Consider using 'feat:' for new features"},
		},
		{
			name:  "improvement keywords",
			title: "Improve performance",
			want:  []string{"Consider using 'feat:' or 'refactor:' for improvements"},
		},
		{
			name:  "no keyword lists the first five types",
			title: "misc",
			want:  []string{"Consider using one of: feat, fix, docs, style, refactor"},
		},
		{
			name:  "length hint",
			title: "add a very long title",
			opts:  models.ValidationOptions{MaxLength: 10},
			want: []string{
				"Consider using 'feat:' for new features",
				"Consider shortening the title to 10 characters or less",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSuggestions(tt.title, tt.opts))
		})
	}
}
