package brief

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"market-brief/internal/types"
)

// Completer produces the raw model response for a system+user prompt
// pair. The one-method interface keeps the synthesizer testable without
// API calls.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// AnthropicCompleter calls the Anthropic Messages API.
type AnthropicCompleter struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicCompleter(apiKey, model string, maxTokens int) *AnthropicCompleter {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{
		client:    &client,
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
	}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}
	return resp.Content[0].Text, nil
}

// cleanJSONResponse strips code fences and surrounding prose that some
// model responses include despite the JSON-only instruction.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// ParseBrief decodes the model's JSON into the brief schema. A response
// that doesn't parse is a fatal error: there is no digest to send.
func ParseBrief(raw string) (*types.Brief, error) {
	cleaned := cleanJSONResponse(raw)
	var b types.Brief
	if err := json.Unmarshal([]byte(cleaned), &b); err != nil {
		preview := cleaned
		if len(preview) > 500 {
			preview = preview[:500]
		}
		return nil, fmt.Errorf("parse brief JSON: %w (preview: %s)", err, preview)
	}
	return &b, nil
}
