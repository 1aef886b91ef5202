package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/adforge/adforge/internal/config"
)

// Clients bundles the capabilities one provider offers. Vision or Images is
// nil when the provider has no such endpoint; callers degrade explicitly.
type Clients struct {
	Text   LLMClient
	Vision VisionClient
	Images ImageClient
}

func NewClients(ctx context.Context, cfg config.LLMConfig) (Clients, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.ImageModel, cfg.BaseURL)
		return Clients{Text: c, Vision: c, Images: c}, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return Clients{}, err
		}
		return Clients{Text: c, Vision: c}, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return Clients{Text: c, Vision: c}, nil

	case "ollama":
		// Ollama speaks the OpenAI-compatible API; point the OpenAI client
		// at it. The API key is ignored but the client requires one.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.ImageModel, baseURL)
		return Clients{Text: c, Vision: c}, nil

	default:
		return Clients{}, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
