// Package config provides worker configuration loading and validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config is the worker configuration. Values come from a JSON file, are
// overlaid by environment variables, and validated before use.
type Config struct {
	LLMAPIKey              string `json:"llm_api_key" validate:"required"`
	LLMModel               string `json:"llm_model,omitempty"`
	LLMMaxRetries          int    `json:"llm_max_retries" validate:"gte=0,lte=10"`
	GitHubToken            string `json:"github_token,omitempty"`
	EnableEvidenceScraping *bool  `json:"enable_evidence_scraping,omitempty"`
	DatabaseURL            string `json:"database_url" validate:"required"`
	Verbose                bool   `json:"verbose,omitempty"`
}

// DefaultLLMMaxRetries bounds the transient-error retry loop.
const DefaultLLMMaxRetries = 3

// Load reads a JSON config file (optional), overlays environment variables,
// applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config. Env values win
// over file values only where the file left a field unset.
func (c *Config) applyEnv() {
	if c.LLMAPIKey == "" {
		c.LLMAPIKey = firstEnv("LLM_API_KEY", "GEMINI_API_KEY")
	}
	if c.GitHubToken == "" {
		c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.LLMModel == "" {
		c.LLMModel = os.Getenv("LLM_MODEL")
	}
	if c.EnableEvidenceScraping == nil {
		if raw := os.Getenv("ENABLE_EVIDENCE_SCRAPING"); raw != "" {
			if parsed, err := strconv.ParseBool(raw); err == nil {
				c.EnableEvidenceScraping = &parsed
			}
		}
	}
}

// applyDefaults fills remaining unset fields.
func (c *Config) applyDefaults() {
	if c.LLMMaxRetries == 0 {
		c.LLMMaxRetries = DefaultLLMMaxRetries
	}
	if c.EnableEvidenceScraping == nil {
		enabled := true
		c.EnableEvidenceScraping = &enabled
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ScrapingEnabled reports whether evidence harvesting is on.
func (c *Config) ScrapingEnabled() bool {
	return c.EnableEvidenceScraping == nil || *c.EnableEvidenceScraping
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
