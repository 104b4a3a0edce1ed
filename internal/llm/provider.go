package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newsradar-io/newsradar/internal/model"
)

// systemPrompt frames every overview request the same way regardless
// of provider.
const systemPrompt = "You are an editor writing terse, neutral lead-ins for a daily AI news digest. Plain prose only: no markdown, no links, no hype."

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a short overview of the day's records
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for overview generation
type SummarizeRequest struct {
	// Records are the classified records of the day, most important first
	Records []model.ContentRecord

	// Date is the digest date the overview opens with
	Date string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the provider's output
type SummarizeResponse struct {
	// Summary is the generated overview text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   60,
		MaxTokens: 300,
	}
}

// BuildPrompt constructs the default overview prompt: the day's top
// headlines with their sources, capped to keep token usage flat.
func BuildPrompt(records []model.ContentRecord, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are writing the lead-in for an AI news digest dated %s.\n\nToday's items:\n", date)

	for i, rec := range records {
		if i >= 20 {
			fmt.Fprintf(&b, "... and %d more items\n", len(records)-20)
			break
		}
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", rec.Importance, rec.Title, rec.Source)
	}

	b.WriteString("\nWrite 2-3 sentences naming the day's dominant themes. Mention only items from the list above.")

	return b.String()
}

// timeoutFor converts the configured timeout, falling back to a minute.
func timeoutFor(config Config) time.Duration {
	if config.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(config.Timeout) * time.Second
}
