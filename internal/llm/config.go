package llm

import (
	"fmt"
	"time"
)

// Config contains configuration for the Gemini client.
type Config struct {
	// APIKey is the Google AI Studio API key
	APIKey string

	// BaseURL is the Generative Language API base URL
	// Default: https://generativelanguage.googleapis.com/v1beta
	BaseURL string

	// Model is the Gemini model identifier
	// Example: gemini-2.0-flash
	Model string

	// Timeout is the HTTP request timeout
	// Default: 30 seconds
	Timeout time.Duration

	// Temperature controls sampling randomness
	Temperature float64

	// MaxOutputTokens caps the model's reply length
	MaxOutputTokens int
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIKey is required")
	}

	if c.Model == "" {
		return fmt.Errorf("Model is required")
	}

	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	if c.Temperature == 0 {
		c.Temperature = 0.7
	}

	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 1024
	}
}
