package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port     string
	LogLevel string

	// Groq (OpenAI-compatible chat completions)
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	// Upload limits
	MaxFileSize int64
}

// Load reads configuration from the environment. A missing GROQ_API_KEY is not
// an error here: /api/extract works without it, and the analyze/chat endpoints
// report the missing credential per request instead of preventing startup.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		MaxFileSize: 10 * 1024 * 1024,
	}

	if raw := os.Getenv("MAX_FILE_SIZE"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid MAX_FILE_SIZE %q", raw)
		}
		cfg.MaxFileSize = size
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
