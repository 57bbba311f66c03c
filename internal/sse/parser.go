package sse

import (
	"bytes"
	"strings"
)

// Event is one decoded server-sent-event record.
type Event struct {
	Name string
	Data string
}

// Parser incrementally decodes a server-sent-event byte stream. Chunks may
// split records at arbitrary byte boundaries; a trailing partial record is
// buffered until the rest arrives.
type Parser struct {
	buf bytes.Buffer
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed consumes the next chunk of the stream and returns every complete
// event it closes off. Records are delimited by a blank line.
func (p *Parser) Feed(chunk []byte) []Event {
	p.buf.Write(chunk)

	var events []Event
	for {
		raw := p.buf.Bytes()
		idx, delim := nextDelimiter(raw)
		if idx < 0 {
			break
		}
		frame := string(raw[:idx])
		p.buf.Next(idx + delim)

		if ev, ok := parseFrame(frame); ok {
			events = append(events, ev)
		}
	}
	return events
}

// nextDelimiter finds the earliest blank-line record terminator, LF or CRLF
// flavored, and returns its offset and length.
func nextDelimiter(raw []byte) (int, int) {
	lf := bytes.Index(raw, []byte("\n\n"))
	crlf := bytes.Index(raw, []byte("\r\n\r\n"))
	switch {
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return crlf, 4
	case lf >= 0:
		return lf, 2
	default:
		return -1, 0
	}
}

// Pending reports whether a partial record is still buffered.
func (p *Parser) Pending() bool {
	return p.buf.Len() > 0
}

// parseFrame decodes one record. Multiple data lines are concatenated, CR
// before LF is tolerated, frames without an event name are dropped.
func parseFrame(frame string) (Event, bool) {
	var name string
	var data strings.Builder

	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimSpace(line[len("event: "):])
		case strings.HasPrefix(line, "data: "):
			data.WriteString(line[len("data: "):])
		}
	}

	if name == "" {
		return Event{}, false
	}
	return Event{Name: name, Data: data.String()}, true
}
