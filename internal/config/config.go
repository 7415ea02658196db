package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all nexus configuration.
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Review   ReviewConfig
	Server   ServerConfig
}

type DatabaseConfig struct {
	Path string
}

type LLMConfig struct {
	Provider     string   // "gemini", "ollama", "mock"
	GeminiKey    string   // GOOGLE_API_KEY
	GeminiModels []string // ordered fallback list
	OllamaURL    string
	OllamaModel  string
}

type ReviewConfig struct {
	DefaultMinutes    int // default session time box
	MutationThreshold int // pending-set size that triggers a rewrite pass
}

type ServerConfig struct {
	Bind string
	Port int
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "gemini",
		},
		Review: ReviewConfig{
			DefaultMinutes:    25,
			MutationThreshold: 20,
		},
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38800,
		},
	}
}

// Load returns the default config with .env and environment overrides
// applied. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("NEXUS_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("NEXUS_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.LLM.GeminiKey = v
	}
	if v := os.Getenv("NEXUS_OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaURL = v
	}
	if v := os.Getenv("NEXUS_OLLAMA_MODEL"); v != "" {
		cfg.LLM.OllamaModel = v
	}
	if v := os.Getenv("NEXUS_REVIEW_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Review.DefaultMinutes = n
		}
	}
	if v := os.Getenv("NEXUS_MUTATION_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Review.MutationThreshold = n
		}
	}
	if v := os.Getenv("NEXUS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
