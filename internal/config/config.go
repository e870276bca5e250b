// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Generative service configuration
	AI AIConfig

	// Text processing configuration
	Processing ProcessingConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Admin data store configuration
	Store StoreConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP port to listen on.
	Port string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// AIConfig contains generative service settings.
type AIConfig struct {
	// APIKey is the authentication key for the Gemini API.
	APIKey string

	// BaseURL is the base URL for the Gemini API.
	BaseURL string

	// Models is the ordered fallback list of model ids, preferred first.
	Models []string

	// AttemptTimeout is the hard deadline for a single attempt.
	AttemptTimeout time.Duration

	// MaxRetries is the number of additional attempts per model after
	// the first one fails.
	MaxRetries int

	// BackoffBase is multiplied by the attempt number between retries.
	BackoffBase time.Duration

	// MaxTokens is the maximum tokens for the analysis response.
	MaxTokens int

	// MockMode enables mock responses for testing without API calls.
	MockMode bool
}

// ProcessingConfig contains text processing settings. The defaults are
// tuning constants, not normative values.
type ProcessingConfig struct {
	// MaxTextSize is the maximum allowed text length in characters.
	MaxTextSize int

	// LongSentenceThreshold is the word count above which a sentence is long.
	LongSentenceThreshold int

	// RepetitionMinWordLen is the word-length cutoff for the repetition score.
	RepetitionMinWordLen int

	// ExcerptBudget caps knowledge-base excerpt length in the prompt.
	ExcerptBudget int
}

// RateLimitConfig contains per-client request limiting settings.
type RateLimitConfig struct {
	// Enabled toggles the rate-limit middleware.
	Enabled bool

	// MaxRequests is the allowed number of requests per window.
	MaxRequests int

	// Window is the limiting window.
	Window time.Duration
}

// StoreConfig contains admin data persistence settings.
type StoreConfig struct {
	// DataFile is the path of the admin JSON document.
	DataFile string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 120*time.Second),
		},
		AI: AIConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			BaseURL:        getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Models:         getListOrDefault("GEMINI_MODELS", []string{"gemini-2.0-flash", "gemini-2.0-flash-exp", "gemini-1.5-flash"}),
			AttemptTimeout: getDurationOrDefault("GEMINI_ATTEMPT_TIMEOUT", 20*time.Second),
			MaxRetries:     getIntOrDefault("GEMINI_MAX_RETRIES", 2),
			BackoffBase:    getDurationOrDefault("GEMINI_BACKOFF_BASE", 2*time.Second),
			MaxTokens:      getIntOrDefault("GEMINI_MAX_TOKENS", 2048),
			MockMode:       getBoolOrDefault("AI_MOCK_MODE", false),
		},
		Processing: ProcessingConfig{
			MaxTextSize:           getIntOrDefault("MAX_TEXT_SIZE", 50000),
			LongSentenceThreshold: getIntOrDefault("LONG_SENTENCE_THRESHOLD", 25),
			RepetitionMinWordLen:  getIntOrDefault("REPETITION_MIN_WORD_LEN", 4),
			ExcerptBudget:         getIntOrDefault("KB_EXCERPT_BUDGET", 300),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			MaxRequests: getIntOrDefault("RATE_LIMIT_MAX_REQUESTS", 20),
			Window:      getDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		},
		Store: StoreConfig{
			DataFile: getEnvOrDefault("ADMIN_DATA_FILE", "data/admin-data.json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	// API key is required unless in mock mode
	if !c.AI.MockMode && c.AI.APIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY is required when not in mock mode", domain.ErrInvalidConfig)
	}

	if len(c.AI.Models) == 0 {
		return fmt.Errorf("%w: GEMINI_MODELS must list at least one model", domain.ErrInvalidConfig)
	}

	if c.AI.AttemptTimeout < time.Second {
		return fmt.Errorf("%w: GEMINI_ATTEMPT_TIMEOUT must be at least 1 second", domain.ErrInvalidConfig)
	}

	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("%w: GEMINI_MAX_RETRIES must not be negative", domain.ErrInvalidConfig)
	}

	if c.Processing.MaxTextSize < 1000 {
		return fmt.Errorf("%w: MAX_TEXT_SIZE must be at least 1000 characters", domain.ErrInvalidConfig)
	}

	if c.Processing.LongSentenceThreshold < 1 {
		return fmt.Errorf("%w: LONG_SENTENCE_THRESHOLD must be positive", domain.ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && c.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("%w: RATE_LIMIT_MAX_REQUESTS must be positive", domain.ErrInvalidConfig)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Try parsing as seconds first (e.g., "15")
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		// Try parsing as duration string (e.g., "15s", "1m")
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
