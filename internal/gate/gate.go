// Package gate provides process-wide concurrency and timeout guards used to
// keep LLM-backed endpoints from exhausting the generation backend.
package gate

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrBusy is returned when a named gate is already at its concurrency limit.
	ErrBusy = errors.New("gate: busy")
	// ErrTimeout is returned when an operation does not settle within its budget.
	ErrTimeout = errors.New("gate: timeout")
)

// Gate tracks in-flight operation counts per key. Callers that find a key at
// its limit fail immediately with ErrBusy; there is no queueing.
type Gate struct {
	mu       sync.Mutex
	counters map[string]int
}

// New creates an empty gate.
func New() *Gate {
	return &Gate{
		counters: make(map[string]int),
	}
}

// Permit is a held slot on a gate key. Release returns the slot; releasing
// more than once is safe and never drives the counter negative.
type Permit struct {
	gate     *Gate
	key      string
	released bool
	mu       sync.Mutex
}

// Acquire reserves a slot for key if fewer than limit are in flight.
func (g *Gate) Acquire(key string, limit int) (*Permit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.counters[key] >= limit {
		return nil, ErrBusy
	}
	g.counters[key]++
	return &Permit{gate: g, key: key}, nil
}

// Release returns the permit's slot to the gate.
func (p *Permit) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true

	p.gate.mu.Lock()
	defer p.gate.mu.Unlock()
	if p.gate.counters[p.key] > 0 {
		p.gate.counters[p.key]--
	}
}

// InFlight reports the current count for key.
func (g *Gate) InFlight(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counters[key]
}

// With runs fn while holding a permit for key, releasing it on every exit path.
func (g *Gate) With(key string, limit int, fn func() error) error {
	permit, err := g.Acquire(key, limit)
	if err != nil {
		return err
	}
	defer permit.Release()
	return fn()
}

// WithTimeout races fn against a timer. The context passed to fn is cancelled
// when the timer fires, so fn can stop upstream consumption; a timed-out fn
// keeps running in the background but its result is discarded.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
