package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

const dataPrefix = "data: "

// Decode reads line-framed event records from body and delivers them on
// the returned channel. The channel closes when the stream ends, whether
// cleanly or not: consumers that did not see a completed event before the
// close must treat the session as failed.
//
// A malformed line never aborts the stream — it is logged and skipped.
func Decode(body io.Reader, log *slog.Logger) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)

		reader := bufio.NewReaderSize(body, 1024*1024)
		skipping := false
		for {
			raw, isPrefix, err := reader.ReadLine()
			if err != nil {
				if err != io.EOF {
					log.Warn("stream read failed", "error", err)
				}
				return
			}
			// A line that overflows the buffer is malformed by size:
			// drop it, fragment by fragment, and resume at the next
			// line instead of killing the stream.
			if skipping {
				skipping = isPrefix
				continue
			}
			if isPrefix {
				log.Warn("skipping oversized stream line", "line", truncate(string(raw), 120))
				skipping = true
				continue
			}

			line := string(raw)
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !strings.HasPrefix(line, dataPrefix) {
				log.Warn("skipping unframed stream line", "line", truncate(line, 120))
				continue
			}

			var rec record
			if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &rec); err != nil {
				log.Warn("skipping malformed stream line", "error", err, "line", truncate(line, 120))
				continue
			}

			switch rec.Type {
			case EventChunk:
				out <- Event{Type: EventChunk, Text: rec.Text}
			case EventCompleted:
				out <- Event{Type: EventCompleted}
				return
			case EventError:
				out <- Event{Type: EventError, Err: rec.Error}
				return
			default:
				log.Warn("skipping unknown event type", "type", rec.Type)
			}
		}
	}()
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
