package llm

import (
	"context"
)

// Provider defines the interface for text-generation backends.
type Provider interface {
	// Name returns the provider name (e.g., "google", "ollama")
	Name() string

	// Models returns the list of available models
	Models() []Model

	// Generate runs a single non-streaming completion and returns the full text.
	Generate(ctx context.Context, req *Request) (string, error)

	// Stream runs a streaming completion. Fragments arrive on the returned
	// channel as the backend produces them; the channel is closed when the
	// stream ends. Cancelling ctx aborts upstream consumption.
	Stream(ctx context.Context, req *Request) (<-chan StreamChunk, error)
}

// Model represents an available model
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContextWindow int    `json:"context_window"`
}

// Request represents a completion request
type Request struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// StreamChunk represents a fragment of a streaming response
type StreamChunk struct {
	// Text delta
	Delta string `json:"delta,omitempty"`

	// Finish reason (only on final chunk)
	FinishReason string `json:"finish_reason,omitempty"`

	// Error (if any)
	Error error `json:"-"`
}
