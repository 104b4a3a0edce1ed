package llm

import (
	"fmt"
	"strings"

	"github.com/newsradar-io/newsradar/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name disables the feature and returns nil, nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return newOllamaProvider(config)

	case "":
		// No provider configured - LLM overview disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// newOllamaProvider routes Ollama through its OpenAI-compatible
// endpoint. No API key is needed; the placeholder satisfies the
// client library.
func newOllamaProvider(config Config) (Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	// OLLAMA_BASE_URL is conventionally the server root; the
	// OpenAI-compatible API lives under /v1.
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasSuffix(config.BaseURL, "/v1") {
		config.BaseURL += "/v1"
	}
	if config.APIKey == "" {
		config.APIKey = "ollama"
	}
	if config.Model == "" {
		config.Model = "llama3.2"
	}

	provider, err := NewOpenAIProvider(config)
	if err != nil {
		return nil, err
	}
	provider.name = "ollama"
	return provider, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config, keeping
// defaults for unset limits.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	config := DefaultConfig()
	config.Provider = modelConfig.Provider
	config.Model = modelConfig.Model
	config.APIKey = modelConfig.APIKey
	config.BaseURL = modelConfig.BaseURL
	if modelConfig.Timeout > 0 {
		config.Timeout = modelConfig.Timeout
	}
	if modelConfig.MaxTokens > 0 {
		config.MaxTokens = modelConfig.MaxTokens
	}
	config.HTTPProxy = modelConfig.HTTPProxy
	config.HTTPSProxy = modelConfig.HTTPSProxy
	config.NoProxy = modelConfig.NoProxy
	return config
}
