package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "LAUNCHSCANNER_CONFIG"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	databaseDSNEnv  = "DATABASE_DSN"
	leaderboardEnv  = "LEADERBOARD_URL"
	defaultStore    = "startups.json"
	defaultTestIn   = "testdata/startups_test.json"
	defaultTestOut  = "testdata/startups_test_output.json"
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-3.5-turbo"
)

// Config holds high-level settings required across the application.
type Config struct {
	Store       StoreConfig       `yaml:"store"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Database    DatabaseConfig    `yaml:"database"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// StoreConfig locates the JSON record store and its test-mode fixtures.
type StoreConfig struct {
	Path    string `yaml:"path"`
	TestIn  string `yaml:"testIn"`
	TestOut string `yaml:"testOut"`
}

// OpenAIConfig defines how to contact the chat-completions API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// LeaderboardConfig describes the public page the fetch command scrapes.
type LeaderboardConfig struct {
	URL   string `yaml:"url"`
	Limit int    `yaml:"limit"`
}

// DatabaseConfig describes the Postgres export target.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// PipelineConfig tunes pacing between external-service calls.
type PipelineConfig struct {
	PauseSeconds int `yaml:"pauseSeconds"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Pause converts the configured pacing into a duration.
func (p PipelineConfig) Pause() time.Duration {
	if p.PauseSeconds <= 0 {
		return time.Second
	}
	return time.Duration(p.PauseSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies .env plus
// environment overrides.
func Load() Config {
	// A missing .env file is the normal case; the key may come from the
	// environment directly.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// RequireAPIKey aborts credential-less runs before any record is touched.
func (c Config) RequireAPIKey() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("%s is not set; provide it via the environment or a .env file", openAIKeyEnv)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(leaderboardEnv); v != "" {
		c.Leaderboard.URL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}
	if override.Store.TestIn != "" {
		base.Store.TestIn = override.Store.TestIn
	}
	if override.Store.TestOut != "" {
		base.Store.TestOut = override.Store.TestOut
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Leaderboard.URL != "" {
		base.Leaderboard.URL = override.Leaderboard.URL
	}
	if override.Leaderboard.Limit > 0 {
		base.Leaderboard.Limit = override.Leaderboard.Limit
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Pipeline.PauseSeconds > 0 {
		base.Pipeline.PauseSeconds = override.Pipeline.PauseSeconds
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:    defaultStore,
			TestIn:  defaultTestIn,
			TestOut: defaultTestOut,
		},
		OpenAI: OpenAIConfig{
			Endpoint: defaultEndpoint,
			Model:    defaultModel,
		},
		Leaderboard: LeaderboardConfig{
			URL:   "https://shipfa.st/leaderboard",
			Limit: 100,
		},
		Pipeline: PipelineConfig{PauseSeconds: 1},
		Logging:  LoggingConfig{Level: "info"},
	}
}
