// Package client is a Go consumer of the quorum API. It starts a debate,
// reads the server-sent-event response incrementally, and reassembles the
// streamed deltas into per-turn messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/quorumlab/quorum/internal/debate"
	"github.com/quorumlab/quorum/internal/sse"
)

// ErrRateLimited is returned when the server answers 429.
var ErrRateLimited = errors.New("client: rate limited")

// Client talks to a quorum server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// DebateResult is the reassembled outcome of one debate stream.
type DebateResult struct {
	Turns      []debate.Turn
	StopReason string
	StreamErr  string
	Ended      bool
}

// StartDebate runs a debate to completion. onDelta, when non-nil, observes
// each live fragment as it arrives.
func (c *Client) StartDebate(ctx context.Context, prd string, agents []string, onDelta func(name, delta string)) (*DebateResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"prd":    prd,
		"agents": agents,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/debate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	result := &DebateResult{}
	parser := sse.NewParser()
	buf := make([]byte, 4096)

	for !result.Ended {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, ev := range parser.Feed(buf[:n]) {
				c.apply(result, ev, onDelta)
				if result.Ended {
					break
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return result, fmt.Errorf("stream read failed: %w", readErr)
		}
	}

	if !result.Ended {
		return result, errors.New("stream closed without end event")
	}
	return result, nil
}

// apply folds one event into the reassembled result, mirroring the browser
// client: turn-start opens a turn, deltas append to it, turn-end replaces it
// with the server's finalized message.
func (c *Client) apply(result *DebateResult, ev sse.Event, onDelta func(name, delta string)) {
	switch ev.Name {
	case debate.EventTurnStart:
		var payload debate.TurnStartPayload
		if json.Unmarshal([]byte(ev.Data), &payload) != nil {
			return
		}
		result.Turns = append(result.Turns, debate.Turn{Name: payload.Name, Round: payload.Round})

	case debate.EventTurnDelta:
		var payload debate.TurnDeltaPayload
		if json.Unmarshal([]byte(ev.Data), &payload) != nil {
			return
		}
		if len(result.Turns) == 0 {
			return
		}
		last := &result.Turns[len(result.Turns)-1]
		last.Message += payload.Delta
		if onDelta != nil {
			onDelta(payload.Name, payload.Delta)
		}

	case debate.EventTurnEnd:
		var payload debate.TurnEndPayload
		if json.Unmarshal([]byte(ev.Data), &payload) != nil {
			return
		}
		if len(result.Turns) == 0 {
			result.Turns = append(result.Turns, debate.Turn{})
		}
		result.Turns[len(result.Turns)-1] = debate.Turn{
			Name:    payload.Name,
			Message: payload.Message,
			Round:   payload.Round,
		}

	case debate.EventInfo:
		var payload debate.InfoPayload
		if json.Unmarshal([]byte(ev.Data), &payload) != nil {
			return
		}
		if payload.OrchestratorStop {
			result.StopReason = payload.Reason
		}

	case debate.EventError:
		var payload debate.ErrorPayload
		if json.Unmarshal([]byte(ev.Data), &payload) != nil {
			return
		}
		result.StreamErr = payload.Error

	case debate.EventEnd:
		result.Ended = true
	}
}

// SelectAgents asks the server which roles should debate the PRD.
func (c *Client) SelectAgents(ctx context.Context, prd string) ([]string, error) {
	var out struct {
		Agents []string `json:"agents"`
	}
	if err := c.postJSON(ctx, "/api/select-agents", map[string]string{"prd": prd}, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// Synthesize requests an improved PRD from the debate transcript.
func (c *Client) Synthesize(ctx context.Context, prd string, turns []debate.Turn) (string, error) {
	var out struct {
		ImprovedPRD string `json:"improvedPrd"`
	}
	payload := map[string]interface{}{"prd": prd, "debate": turns}
	if err := c.postJSON(ctx, "/api/synthesize-prd", payload, &out); err != nil {
		return "", err
	}
	return out.ImprovedPRD, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
