package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	SupabaseKey     string // Service role key, used only by cmd/seed
	CORSOrigins     string
	TablePrefix     string
	// LLM Configuration
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string // Optional; set to an OpenRouter-compatible endpoint to route through it
	DefaultProvider string
	DefaultModel    string
	// Search / research
	TavilyAPIKey    string
	ResearchEnabled bool
	// Destination cache
	CacheBackend string // "postgres" or "redis"
	RedisURL     string
	CacheTTL     time.Duration
	// Upstream retry policy
	RetryMaxAttempts     int
	RetryInitialInterval time.Duration
	// Chat rate limit per user
	RateLimitPerMinute int
	// Observability
	OTLPEndpoint string
	LogDir       string
	LogMaxFiles  int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	tavilyKey := getEnv("TAVILY_API_KEY", "")
	researchDefault := "false"
	if tavilyKey != "" {
		researchDefault = "true"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,
		// LLM Configuration
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		DefaultProvider: getEnv("DEFAULT_PROVIDER", "anthropic"),
		DefaultModel:    getEnv("DEFAULT_MODEL", "claude-haiku-4-5-20251001"),
		// Search
		TavilyAPIKey:    tavilyKey,
		ResearchEnabled: getEnv("RESEARCH_ENABLED", researchDefault) == "true",
		// Cache
		CacheBackend: getEnv("CACHE_BACKEND", "postgres"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL:     time.Duration(getEnvInt("CACHE_TTL_MINUTES", DefaultCacheTTLMinutes)) * time.Minute,
		// Retry
		RetryMaxAttempts:     getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialInterval: time.Duration(getEnvInt("RETRY_INITIAL_INTERVAL_MS", 500)) * time.Millisecond,
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		// Observability
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogDir:       getEnv("LOG_DIR", ""),
		LogMaxFiles:  getEnvInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
