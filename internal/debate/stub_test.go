package debate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quorumlab/quorum/internal/llm"
)

// stubProvider scripts the generation backend for tests. Generate and Stream
// callbacks receive a 1-based per-kind call counter.
type stubProvider struct {
	mu          sync.Mutex
	genCalls    int
	streamCalls int

	generate func(call int, req *llm.Request) (string, error)
	stream   func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error)

	// hang keeps the stream open after the scripted chunks, emitting nothing
	// until the caller's context is cancelled.
	hang bool
}

func (p *stubProvider) Name() string        { return "stub" }
func (p *stubProvider) Models() []llm.Model { return nil }

func (p *stubProvider) Generate(ctx context.Context, req *llm.Request) (string, error) {
	p.mu.Lock()
	p.genCalls++
	call := p.genCalls
	p.mu.Unlock()
	if p.generate == nil {
		return "", context.Canceled
	}
	return p.generate(call, req)
}

func (p *stubProvider) Stream(ctx context.Context, req *llm.Request) (<-chan llm.StreamChunk, error) {
	p.mu.Lock()
	p.streamCalls++
	call := p.streamCalls
	p.mu.Unlock()

	if p.stream == nil {
		return nil, context.Canceled
	}
	scripted, err := p.stream(ctx, call, req)
	if err != nil {
		return nil, err
	}

	chunks := make(chan llm.StreamChunk)
	go func() {
		defer close(chunks)
		for _, c := range scripted {
			select {
			case chunks <- c:
			case <-ctx.Done():
				return
			}
		}
		if p.hang {
			<-ctx.Done()
		}
	}()
	return chunks, nil
}

// textChunks splits a message into one chunk per word, spaces preserved.
func textChunks(words ...string) []llm.StreamChunk {
	chunks := make([]llm.StreamChunk, len(words))
	for i, w := range words {
		if i > 0 {
			w = " " + w
		}
		chunks[i] = llm.StreamChunk{Delta: w}
	}
	return chunks
}

// recorder captures emitted events in order.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	name    string
	payload interface{}
}

func (r *recorder) Emit(event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{name: event, payload: payload})
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, ev := range r.events {
		names[i] = ev.name
	}
	return names
}

func (r *recorder) byName(name string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, ev := range r.events {
		if ev.name == name {
			out = append(out, ev)
		}
	}
	return out
}

// testEngine builds an engine around a stub provider with pacing disabled.
func testEngine(p *stubProvider, mutate func(*Config)) *Engine {
	cfg := DefaultConfig()
	cfg.Provider = "stub"
	cfg.TurnPacing = 0
	cfg.EvalPacing = 0
	if mutate != nil {
		mutate(&cfg)
	}

	manager := llm.NewManager()
	manager.RegisterProvider(p)
	return NewEngine(manager, cfg, zerolog.Nop())
}
