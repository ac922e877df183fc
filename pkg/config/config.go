package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Settings are the process settings read from the environment. A .env file
// in the working directory is loaded first by cmd.
type Settings struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DataDir  string `envconfig:"PEAK_DATA_DIR" default:"data"`
	Store    string `envconfig:"PEAK_STORE" default:"file"`
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Seed values for the user configuration, used until one is saved.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	Provider     string `envconfig:"PEAK_PROVIDER"`
	Model        string `envconfig:"PEAK_MODEL"`

	Debug       bool `envconfig:"PEAK_DEBUG" default:"false"`
	CountTokens bool `envconfig:"PEAK_COUNT_TOKENS" default:"false"`
}

func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("failed to process env config: %w", err)
	}
	switch s.Store {
	case StoreFile, StoreRedis:
	default:
		return Settings{}, fmt.Errorf("unknown PEAK_STORE %q, want %q or %q", s.Store, StoreFile, StoreRedis)
	}
	return s, nil
}

func (s Settings) Addr() string {
	return ":" + s.Port
}
