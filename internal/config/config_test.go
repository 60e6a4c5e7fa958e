package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LLM_API_KEY", "GEMINI_API_KEY", "GITHUB_TOKEN", "DATABASE_URL", "LLM_MODEL", "ENABLE_EVIDENCE_SCRAPING"} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `{
		"llm_api_key": "file-key",
		"database_url": "postgres://localhost/evals",
		"llm_model": "gemini-2.5-pro",
		"llm_max_retries": 5
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.LLMAPIKey)
	assert.Equal(t, "postgres://localhost/evals", cfg.DatabaseURL)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLMModel)
	assert.Equal(t, 5, cfg.LLMMaxRetries)
	assert.True(t, cfg.ScrapingEnabled())
}

func TestLoad_EnvFillsUnsetFields(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env/evals")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("ENABLE_EVIDENCE_SCRAPING", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLMAPIKey)
	assert.Equal(t, "postgres://env/evals", cfg.DatabaseURL)
	assert.Equal(t, "gh-token", cfg.GitHubToken)
	assert.False(t, cfg.ScrapingEnabled())
	assert.Equal(t, DefaultLLMMaxRetries, cfg.LLMMaxRetries)
}

func TestLoad_FileValuesWinOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "env-key")
	path := writeConfigFile(t, `{
		"llm_api_key": "file-key",
		"database_url": "postgres://localhost/evals"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.LLMAPIKey)
}

func TestLoad_LLMAPIKeyEnvPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "fallback")
	t.Setenv("DATABASE_URL", "postgres://env/evals")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.LLMAPIKey)
}

func TestLoad_MissingRequiredFieldsFail(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_RejectsExcessiveRetries(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `{
		"llm_api_key": "k",
		"database_url": "postgres://localhost/evals",
		"llm_max_retries": 50
	}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSONFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfigFile(t, `{"llm_api_key": `))
	require.Error(t, err)
}
