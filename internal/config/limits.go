package config

const (
	// MaxMessageLength is the maximum length of a single chat message.
	// Travel requests are short; anything longer is almost certainly a paste
	// that would blow the prompt budget of every pipeline stage.
	MaxMessageLength = 4000

	// MaxTripNameLength is the maximum length for trip names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTripNameLength = 255

	// MaxResearchIterations bounds the tool-use loop of a research sub-call.
	MaxResearchIterations = 4

	// DefaultCacheTTLMinutes is how long destination context stays live (24 hours).
	DefaultCacheTTLMinutes = 1440
)
