// Package stream consumes the generation service's chunked event stream.
package stream

// EventType identifies a stream event.
type EventType string

const (
	EventChunk     EventType = "chunk"
	EventCompleted EventType = "completed"
	EventError     EventType = "error"
)

// Event is the explicit message the session loop consumes. All stream
// wiring funnels into this enum so ordering is preserved by a single
// sequential consumer rather than by callbacks.
type Event struct {
	Type EventType
	Text string // chunk
	Err  string // error
}

// record is the wire form of a single stream line.
type record struct {
	Type  EventType `json:"type"`
	Text  string    `json:"text,omitempty"`
	Error string    `json:"error,omitempty"`
}
