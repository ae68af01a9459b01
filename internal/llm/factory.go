package llm

import (
	"fmt"
	"strings"
)

// Settings selects and configures a backend.
type Settings struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// NewChatClient creates a chat client for s.Provider.
// Supported providers: "local" (llama.cpp or any OpenAI-compatible server) and "openai".
func NewChatClient(s Settings) (ChatClient, error) {
	if strings.TrimSpace(s.Model) == "" {
		return nil, fmt.Errorf("llm model is not set")
	}
	switch s.Provider {
	case ProviderLocal:
		if s.BaseURL == "" {
			return nil, fmt.Errorf("base URL is required for the %s provider", ProviderLocal)
		}
		return NewClient(strings.TrimRight(s.BaseURL, "/"), s.APIKey, s.Model), nil
	case ProviderOpenAI:
		if s.APIKey == "" && s.BaseURL == "" {
			return nil, fmt.Errorf("api key is required for the %s provider", ProviderOpenAI)
		}
		return NewOpenAIClient(s.APIKey, s.BaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", s.Provider)
	}
}

// NewEmbedder creates an embedder for s.Provider.
func NewEmbedder(s Settings) (Embedder, error) {
	if strings.TrimSpace(s.Model) == "" {
		return nil, fmt.Errorf("embedding model is not set")
	}
	switch s.Provider {
	case ProviderLocal:
		if s.BaseURL == "" {
			return nil, fmt.Errorf("base URL is required for the %s provider", ProviderLocal)
		}
		return NewEmbeddingsClient(strings.TrimRight(s.BaseURL, "/"), s.APIKey, s.Model, 0), nil
	case ProviderOpenAI:
		if s.APIKey == "" && s.BaseURL == "" {
			return nil, fmt.Errorf("api key is required for the %s provider", ProviderOpenAI)
		}
		return NewOpenAIEmbedder(s.APIKey, s.BaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", s.Provider)
	}
}
