package llm

import (
	"context"
	"fmt"
)

// DefaultMaxTokens is used when a request does not set MaxTokens.
const DefaultMaxTokens = 2048

// Request is a single-turn completion request.
type Request struct {
	System    string
	Prompt    string
	Tier      ModelTier
	MaxTokens int
	// TopP is applied where the provider allows it alongside temperature. Zero leaves the
	// provider default.
	TopP float32
}

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// Client is an abstraction over LLM providers. Completions always run at temperature 0.
type Client interface {
	// GenerateContent returns the model's text reply
	GenerateContent(ctx context.Context, req Request) (string, error)
	// GenerateJSON returns a reply expected to be JSON, with code fences removed
	GenerateJSON(ctx context.Context, req Request) (string, error)
	// GetModel returns the provider model that serves a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client for the configured provider. It returns ErrNotConfigured when
// apiKey is empty so callers can run their deterministic fallbacks instead.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
