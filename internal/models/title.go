package models

type (
	// TitleOptions tune how suggestions are generated.
	TitleOptions struct {
		IncludeScope   bool
		RequireScope   bool
		PreferredTypes []string
		MaxLength      int
		MatchLanguage  bool
		CustomPrompt   string
	}

	// TitleGenerationRequest carries the PR context sent to the AI provider.
	TitleGenerationRequest struct {
		OriginalTitle string
		PRDescription string
		PRBody        string
		DiffContent   string
		ChangedFiles  []string
		Options       TitleOptions
	}

	// TitleGenerationResponse holds 1..3 candidate titles, best first.
	TitleGenerationResponse struct {
		Suggestions []string `json:"suggestions" jsonschema:"required,minItems=1,maxItems=3,description=Improved PR titles following Conventional Commits best first"`
		Reasoning   string   `json:"reasoning" jsonschema:"required,description=Short explanation of why these titles were chosen"`
		Confidence  float64  `json:"confidence" jsonschema:"required,minimum=0,maximum=1,description=Confidence in the best suggestion between 0 and 1"`
	}
)
