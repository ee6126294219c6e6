package tools

// ToolConfig centralizes limits for the research tools.
type ToolConfig struct {
	// MaxSnippetChars truncates each result's content before it is returned
	// to the model.
	MaxSnippetChars int

	// MaxResultsPerCall caps results returned per tool call after ranking.
	MaxResultsPerCall int
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		MaxSnippetChars:   1200,
		MaxResultsPerCall: 6,
	}
}
