package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quorumlab/quorum/internal/llm"
)

// Client implements the LLM provider interface for Ollama
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new Ollama client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "ollama"
}

// Models returns available models by querying Ollama
func (c *Client) Models() []llm.Model {
	resp, err := c.client.Get(c.baseURL + "/api/tags")
	if err != nil {
		return []llm.Model{}
	}
	defer resp.Body.Close()

	var result struct {
		Models []struct {
			Name    string `json:"name"`
			Details struct {
				ParameterSize string `json:"parameter_size"`
			} `json:"details"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return []llm.Model{}
	}

	models := make([]llm.Model, len(result.Models))
	for i, m := range result.Models {
		models[i] = llm.Model{
			ID:            m.Name,
			Name:          m.Name,
			Description:   fmt.Sprintf("Local model - %s", m.Details.ParameterSize),
			ContextWindow: 4096, // Default, may vary by model
		}
	}
	return models
}

// Generate runs a single non-streaming completion.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (string, error) {
	resp, err := c.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return genResp.Response, nil
}

// Stream runs a streaming completion. Ollama streams newline-delimited JSON
// objects, one fragment per line.
func (c *Client) Stream(ctx context.Context, req *llm.Request) (<-chan llm.StreamChunk, error) {
	resp, err := c.post(ctx, req, true)
	if err != nil {
		return nil, err
	}

	chunks := make(chan llm.StreamChunk, 100)

	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var genResp generateResponse
			if err := json.Unmarshal(line, &genResp); err != nil {
				continue
			}

			if genResp.Response != "" {
				select {
				case chunks <- llm.StreamChunk{Delta: genResp.Response}:
				case <-ctx.Done():
					return
				}
			}
			if genResp.Done {
				chunks <- llm.StreamChunk{FinishReason: "stop"}
				return
			}
		}

		if err := scanner.Err(); err != nil {
			chunks <- llm.StreamChunk{Error: err}
		}
	}()

	return chunks, nil
}

func (c *Client) post(ctx context.Context, req *llm.Request, stream bool) (*http.Response, error) {
	body := map[string]interface{}{
		"model":  req.Model,
		"prompt": req.Prompt,
		"stream": stream,
	}
	options := map[string]interface{}{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(options) > 0 {
		body["options"] = options
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}
	return resp, nil
}

// generateResponse covers both streaming and non-streaming /api/generate payloads
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}
