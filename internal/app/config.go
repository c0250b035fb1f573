package app

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr      string
	PublicBaseURL string
	LogLevel      string
	SentryDSN     string

	// Prompt service (OpenAI)
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	PromptModel     string
	PromptMaxTokens int // completion cap per generated prompt
}

func LoadConfigFromEnv() Config {
	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		SentryDSN:     getenv("SENTRY_DSN", ""),

		// Prompt service
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"), // Required - no fallback for security
		OpenAIBaseURL:   getenv("OPENAI_BASE_URL", ""),
		PromptModel:     getenv("PROMPT_MODEL", "gpt-4o-mini"),
		PromptMaxTokens: getenvIntClamped("PROMPT_MAX_TOKENS", 100, 1, 500),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvIntClamped reads an integer env var, falling back to def when unset
// or unparsable, and clamping the result into [min, max].
func getenvIntClamped(k string, def, min, max int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
