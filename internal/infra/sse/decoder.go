// Package sse decodes the line-oriented event stream the report chat endpoint
// emits. The decoder is fed raw transport chunks and owns reassembly of lines
// that were split across chunk boundaries; it knows nothing about HTTP.
package sse

import (
	"encoding/json"
	"strings"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// EventKind classifies a decoded event.
type EventKind int

const (
	// EventText carries a fragment to append to the assistant message.
	EventText EventKind = iota
	// EventDone marks the end of the stream.
	EventDone
)

// Event is one decoded stream event.
type Event struct {
	Kind EventKind
	Text string
}

// Decoder incrementally decodes "data: <json>" lines. Incomplete trailing
// lines are buffered until the terminating newline arrives. Lines that are not
// data lines, and data payloads of unknown shape, are skipped so new event
// types can be introduced server-side without breaking old clients.
type Decoder struct {
	buf  strings.Builder
	done bool
}

// payload covers both recognized data shapes.
type payload struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Feed consumes one transport chunk and returns the events completed by it.
// After an EventDone has been returned, further input is discarded.
func (d *Decoder) Feed(chunk []byte) []Event {
	if d.done {
		return nil
	}
	d.buf.Write(chunk)

	data := d.buf.String()
	var events []Event
	for {
		idx := strings.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(data[:idx], "\r")
		data = data[idx+1:]

		ev, ok := d.decodeLine(line)
		if !ok {
			continue
		}
		events = append(events, ev)
		if ev.Kind == EventDone {
			d.done = true
			d.buf.Reset()
			return events
		}
	}
	d.buf.Reset()
	d.buf.WriteString(data)
	return events
}

// Done reports whether the end-of-stream sentinel has been seen.
func (d *Decoder) Done() bool { return d.done }

func (d *Decoder) decodeLine(line string) (Event, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}
	body := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if body == doneSentinel {
		return Event{Kind: EventDone}, true
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return Event{}, false
	}
	if p.Done {
		return Event{Kind: EventDone}, true
	}
	if p.Text != "" {
		return Event{Kind: EventText, Text: p.Text}, true
	}
	return Event{}, false
}
