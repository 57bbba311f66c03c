package google

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quorumlab/quorum/internal/llm"
)

// Client implements the LLM provider interface for Google AI (Gemini)
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Google AI client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{},
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "google"
}

// Models returns available models
func (c *Client) Models() []llm.Model {
	return []llm.Model{
		{
			ID:            "gemini-2.0-flash",
			Name:          "Gemini 2.0 Flash",
			Description:   "Fast multimodal model, the default for debate turns",
			ContextWindow: 1000000,
		},
		{
			ID:            "gemini-2.0-flash-lite",
			Name:          "Gemini 2.0 Flash Lite",
			Description:   "Cheapest option, used for role selection",
			ContextWindow: 1000000,
		},
		{
			ID:            "gemini-1.5-pro",
			Name:          "Gemini 1.5 Pro",
			Description:   "Best for complex reasoning tasks",
			ContextWindow: 2000000,
		},
	}
}

// Generate runs a single non-streaming completion.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, req.Model, c.apiKey)
	resp, err := c.post(ctx, url, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder
	for _, candidate := range genResp.Candidates {
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// Stream runs a streaming completion over the SSE endpoint.
func (c *Client) Stream(ctx context.Context, req *llm.Request) (<-chan llm.StreamChunk, error) {
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?key=%s&alt=sse", c.baseURL, req.Model, c.apiKey)
	resp, err := c.post(ctx, url, req)
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
			line := scanner.Text()
			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")

			var streamResp geminiResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			for _, candidate := range streamResp.Candidates {
				for _, part := range candidate.Content.Parts {
					if part.Text != "" {
						select {
						case chunks <- llm.StreamChunk{Delta: part.Text}:
						case <-ctx.Done():
							return
						}
					}
				}
				if candidate.FinishReason != "" {
					finishReason := strings.ToLower(candidate.FinishReason)
					if finishReason == "end_turn" {
						finishReason = "stop"
					}
					chunks <- llm.StreamChunk{FinishReason: finishReason}
				}
			}
		}

		if err := scanner.Err(); err != nil {
			chunks <- llm.StreamChunk{Error: err}
		}
	}()

	return chunks, nil
}

func (c *Client) post(ctx context.Context, url string, req *llm.Request) (*http.Response, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": req.Prompt},
				},
			},
		},
	}

	generationConfig := map[string]interface{}{}
	if req.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		generationConfig["temperature"] = req.Temperature
	}
	if len(generationConfig) > 0 {
		body["generationConfig"] = generationConfig
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return resp, nil
}

// geminiResponse covers both generateContent and streamGenerateContent payloads
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
			Role string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}
