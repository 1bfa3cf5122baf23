// Package openaicompat backs the text-generation port with any
// chat-completions endpoint the go-openai client can reach. It is the
// alternative to the Gemini provider for self-hosted deployments.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

type Options struct {
	BaseURL     string
	Model       string
	Temperature float32
}

func New(apiKey string, options Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if options.BaseURL != "" {
		cfg.BaseURL = options.BaseURL
	}
	model := options.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	temperature := options.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a legal document analysis assistant. Follow the response format in each request exactly.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyOpenAIError marks rate-limit and server-side failures temporary so
// the pipeline falls back instead of failing the document outright.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 408, 429, 500, 502, 503, 504:
			return domain.WrapError(domain.ErrTemporary, "openai generate", err)
		}
		return fmt.Errorf("openai generate: %w", err)
	}
	return domain.WrapError(domain.ErrTemporary, "openai generate", err)
}
