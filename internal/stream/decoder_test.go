package stream

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collect(t *testing.T, input string) []Event {
	t.Helper()
	var events []Event
	for ev := range Decode(strings.NewReader(input), discard()) {
		events = append(events, ev)
	}
	return events
}

func TestDecodeChunksAndCompleted(t *testing.T) {
	input := "data: {\"type\":\"chunk\",\"text\":\"# Title\\n\"}\n" +
		"data: {\"type\":\"chunk\",\"text\":\"body\"}\n" +
		"data: {\"type\":\"completed\"}\n"

	events := collect(t, input)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %v", len(events), events)
	}
	if events[0].Type != EventChunk || events[0].Text != "# Title\n" {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].Type != EventChunk || events[1].Text != "body" {
		t.Errorf("event 1 = %+v", events[1])
	}
	if events[2].Type != EventCompleted {
		t.Errorf("event 2 = %+v", events[2])
	}
}

func TestDecodeErrorEvent(t *testing.T) {
	events := collect(t, "data: {\"type\":\"error\",\"error\":\"model overloaded\"}\n")
	if len(events) != 1 || events[0].Type != EventError || events[0].Err != "model overloaded" {
		t.Fatalf("events = %v", events)
	}
}

func TestDecodeSkipsMalformedLines(t *testing.T) {
	input := "data: {not json}\n" +
		": keepalive comment\n" +
		"data: {\"type\":\"mystery\"}\n" +
		"data: {\"type\":\"chunk\",\"text\":\"ok\"}\n" +
		"data: {\"type\":\"completed\"}\n"

	events := collect(t, input)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %v", len(events), events)
	}
	if events[0].Text != "ok" {
		t.Errorf("surviving chunk = %+v", events[0])
	}
}

func TestDecodeSkipsOversizedLine(t *testing.T) {
	// A line larger than the read buffer is dropped like any other
	// malformed record; the stream keeps going.
	input := "data: {\"type\":\"chunk\",\"text\":\"" + strings.Repeat("x", 2*1024*1024) + "\"}\n" +
		"data: {\"type\":\"chunk\",\"text\":\"after\"}\n" +
		"data: {\"type\":\"completed\"}\n"

	events := collect(t, input)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %v", len(events), events)
	}
	if events[0].Type != EventChunk || events[0].Text != "after" {
		t.Errorf("first event = %+v, want the chunk after the oversized line", events[0])
	}
	if events[1].Type != EventCompleted {
		t.Errorf("last event = %+v, want completed", events[1])
	}
}

func TestDecodeEOFWithoutCompleted(t *testing.T) {
	// The channel just closes; the consumer decides this means failure.
	events := collect(t, "data: {\"type\":\"chunk\",\"text\":\"partial\"}\n")
	if len(events) != 1 || events[0].Type != EventChunk {
		t.Fatalf("events = %v", events)
	}
}

func TestDecodeStopsAfterTerminalEvent(t *testing.T) {
	input := "data: {\"type\":\"completed\"}\n" +
		"data: {\"type\":\"chunk\",\"text\":\"late\"}\n"
	events := collect(t, input)
	if len(events) != 1 || events[0].Type != EventCompleted {
		t.Fatalf("events after completed must not be delivered: %v", events)
	}
}
