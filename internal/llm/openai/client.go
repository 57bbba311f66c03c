package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quorumlab/quorum/internal/llm"
)

// Client implements the LLM provider interface for OpenAI
type Client struct {
	client *openai.Client
}

// NewClient creates a new OpenAI client
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "openai"
}

// Models returns available models
func (c *Client) Models() []llm.Model {
	return []llm.Model{
		{
			ID:            openai.GPT4TurboPreview,
			Name:          "GPT-4 Turbo",
			Description:   "Most capable model for complex reasoning",
			ContextWindow: 128000,
		},
		{
			ID:            openai.GPT3Dot5Turbo,
			Name:          "GPT-3.5 Turbo",
			Description:   "Fast and inexpensive for most tasks",
			ContextWindow: 16385,
		},
	}
}

// Generate runs a single non-streaming completion.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(req, false))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream runs a streaming completion.
func (c *Client) Stream(ctx context.Context, req *llm.Request) (<-chan llm.StreamChunk, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.buildRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("chat completion stream failed: %w", err)
	}

	chunks := make(chan llm.StreamChunk, 100)

	go func() {
		defer close(chunks)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				chunks <- llm.StreamChunk{FinishReason: "stop"}
				return
			}
			if err != nil {
				if ctx.Err() == nil {
					chunks <- llm.StreamChunk{Error: err}
				}
				return
			}
			for _, choice := range resp.Choices {
				if choice.Delta.Content != "" {
					select {
					case chunks <- llm.StreamChunk{Delta: choice.Delta.Content}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return chunks, nil
}

func (c *Client) buildRequest(req *llm.Request, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}
