package llm

import (
	"context"
	"fmt"

	"github.com/nexuskb/nexus/internal/config"
)

// Client is the interface for text-generation providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Response holds the result of a completion.
type Response struct {
	Content  string
	Provider string
	Model    string
}

// NewClient creates a client based on the config provider setting.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_API_KEY or config")
		}
		models := cfg.GeminiModels
		if len(models) == 0 {
			models = DefaultGeminiModels
		}
		return NewGemini(cfg.GeminiKey, models), nil
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.OllamaModel
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(url, model), nil
	case "mock":
		return &MockClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
