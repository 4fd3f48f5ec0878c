package kolosal

import (
	"context"
	"strings"
	"time"
	"warungbot/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxCompletionDuration = 30 * time.Second

// Client wraps the Kolosal OpenAI-compatible completion API.
type Client struct {
	llm *openai.LLM
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	llm, err := openai.New(
		openai.WithToken(cfg.Kolosal.Token),
		openai.WithBaseURL(cfg.Kolosal.BaseURL),
		openai.WithModel(cfg.Kolosal.Model),
	)
	if err != nil {
		return nil, oops.Errorf("failed to create kolosal client: %w", err)
	}

	return &Client{
		llm: llm,
	}, nil
}

// Complete sends one prompt and returns the model's reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, maxCompletionDuration)
	defer cancel()

	messages := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	opts := []llms.CallOption{}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", oops.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", oops.Errorf("no chat completion found")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
