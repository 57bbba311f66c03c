// Package sse implements the server-sent-events wire format used by the
// debate stream: a Writer that encodes events onto an open response and a
// Parser that incrementally decodes them on the consuming side.
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
)

// Writer serializes events onto a single open stream. Events are written and
// flushed in the exact order Emit is called; there is no batching.
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewWriter wraps an open response writer.
func NewWriter(w *bufio.Writer) *Writer {
	return &Writer{w: w}
}

// Emit writes one event record: "event: <name>\ndata: <json>\n\n".
func (w *Writer) Emit(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event, err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s event: %w", event, err)
	}
	return nil
}
