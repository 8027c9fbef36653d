package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Anthropic's Messages API
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &AnthropicClient{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier.
// Temperature is fixed at 0; the API rejects top_p alongside it on current models.
func (c *AnthropicClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	name := c.config.GetModel(req.Tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(name),
		MaxTokens:   int64(req.maxTokens()),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.Prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &APICallError{Provider: ProviderAnthropic, Model: name, Cause: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}
	return sb.String(), nil
}

// GenerateJSON generates content and strips any markdown fences around it
func (c *AnthropicClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	text, err := c.GenerateContent(ctx, req)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no persistent resources.
func (c *AnthropicClient) Close() error {
	return nil
}
