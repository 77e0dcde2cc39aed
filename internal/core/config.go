package core

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	LogLevel          string // debug, info, warn, error
	Port              int    // HTTP listen port
	GeminiAPIKey      string // Required for real model calls
	GeminiModel       string // Gemini model identifier
	DefaultLocation   string // Fallback delivery region for searches
	MaxToolIterations int    // Tool-call cap per chat turn
	MaxHistoryPairs   int    // Session history cap, in user/model pairs
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	maxIterations, err := getEnvInt("MAX_TOOL_ITERATIONS", 10)
	if err != nil {
		return nil, err
	}
	maxPairs, err := getEnvInt("MAX_HISTORY_PAIRS", 20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:          logLevel,
		Port:              port,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		DefaultLocation:   getEnvOrDefault("DEFAULT_LOCATION", "Vadodara"),
		MaxToolIterations: maxIterations,
		MaxHistoryPairs:   maxPairs,
	}

	// The API key is not required here: tests and mock runs work without
	// it. It is validated when the real model client is constructed.

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: key, Message: "must be an integer", Err: err}
	}
	return n, nil
}
