package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LAUNCHSCANNER_CONFIG", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()
	assert.Equal(t, "startups.json", cfg.Store.Path)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 100, cfg.Leaderboard.Limit)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  path: data/launches.json
openai:
  model: gpt-4o-mini
logging:
  level: debug
`), 0o644))

	t.Setenv("LAUNCHSCANNER_CONFIG", path)
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()
	assert.Equal(t, "data/launches.json", cfg.Store.Path)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey, "environment wins over file")
	// Unset file fields keep their defaults.
	assert.Equal(t, 100, cfg.Leaderboard.Limit)
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Config{}
	require.Error(t, cfg.RequireAPIKey())

	cfg.OpenAI.APIKey = "key"
	require.NoError(t, cfg.RequireAPIKey())
}
