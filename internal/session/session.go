// Package session owns the per-document streaming lifecycle: accumulated
// text, last-applied baseline, debounce timer, and status.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/mdlive/internal/block"
	"github.com/dgallion1/mdlive/internal/debounce"
	"github.com/dgallion1/mdlive/internal/diff"
	"github.com/dgallion1/mdlive/internal/outline"
	"github.com/dgallion1/mdlive/internal/parser"
	"github.com/dgallion1/mdlive/internal/patch"
	"github.com/dgallion1/mdlive/internal/store"
	"github.com/dgallion1/mdlive/internal/stream"
)

// Status is the lifecycle state of a streaming session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusStreaming Status = "streaming"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Session drives one document's stream. Events are consumed sequentially
// by a single loop: between events all computation (parse, diff) runs to
// completion, so candidate computation never interleaves with itself.
//
// Patches against the live handle are last-writer-wins with respect to
// concurrent human edits. The diff engine's drift guard bounds gross
// positional corruption; semantic conflicts are deliberately not merged.
type Session struct {
	ID    string
	DocID string

	mu          sync.Mutex
	status      Status
	accumulated strings.Builder
	baseline    block.Document
	observers   map[int]chan block.Document
	nextObs     int
	updatedAt   time.Time

	handle    patch.Handle
	sink      *store.Sink
	source    outline.Source
	applySlot *debounce.Slot
	cancel    context.CancelFunc
	closed    bool
	done      chan struct{}
	log       *slog.Logger
}

func newSession(docID string, h patch.Handle, sink *store.Sink, src outline.Source, applyDelay time.Duration, cancel context.CancelFunc, log *slog.Logger) *Session {
	id := newID()
	return &Session{
		ID:        id,
		DocID:     docID,
		status:    StatusIdle,
		observers: map[int]chan block.Document{},
		updatedAt: time.Now(),
		handle:    h,
		sink:      sink,
		source:    src,
		applySlot: debounce.New(applyDelay),
		cancel:    cancel,
		done:      make(chan struct{}),
		log:       log.With("session_id", id, "doc_id", docID),
	}
}

// Info is a read-only snapshot of session state.
type Info struct {
	ID        string    `json:"session_id"`
	DocID     string    `json:"doc_id"`
	Status    Status    `json:"status"`
	Bytes     int       `json:"accumulated_bytes"`
	Blocks    int       `json:"baseline_blocks"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) Snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		DocID:     s.DocID,
		Status:    s.status,
		Bytes:     s.accumulated.Len(),
		Blocks:    len(s.baseline),
		UpdatedAt: s.updatedAt,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusCompleted || s.status == StatusError
}

// Subscribe registers a live-preview observer. Each parsed candidate
// document is published to it, non-authoritatively: previews may be
// dropped under backpressure and never influence what gets applied.
func (s *Session) Subscribe() (<-chan block.Document, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan block.Document, 8)
	id := s.nextObs
	s.nextObs++
	if s.observers == nil {
		// Already terminal: hand back a closed channel.
		close(ch)
		return ch, func() {}
	}
	s.observers[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.observers[id]; ok {
			delete(s.observers, id)
			close(c)
		}
	}
}

func (s *Session) publish(doc block.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.observers {
		select {
		case ch <- doc:
		default:
		}
	}
}

func (s *Session) closeObservers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.observers {
		delete(s.observers, id)
		close(ch)
	}
	s.observers = nil
}

// start opens the upstream stream and runs the event loop until a
// terminal event or teardown.
func (s *Session) start(ctx context.Context, client *stream.Client, prompt string) {
	s.mu.Lock()
	s.status = StatusStreaming
	s.updatedAt = time.Now()
	s.mu.Unlock()

	// Loading skeleton while the first chunks arrive. It is rendered, not
	// diffed: the baseline stays empty so the first real candidate
	// replaces the shimmer wholesale.
	s.handle.RenderAll(outline.Placeholder(s.DocID, 3))

	body, err := client.OpenWithRetry(ctx, s.DocID, prompt)
	if err != nil {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			s.log.Error("stream open failed", "error", err)
			s.fail()
		}
		close(s.done)
		return
	}
	defer body.Close()

	s.run(stream.Decode(body, s.log))
}

func (s *Session) run(events <-chan stream.Event) {
	defer close(s.done)
	for ev := range events {
		switch ev.Type {
		case stream.EventChunk:
			s.onChunk(ev.Text)
		case stream.EventCompleted:
			s.onCompleted()
			return
		case stream.EventError:
			s.log.Error("stream signalled error", "error", ev.Err)
			s.fail()
			return
		}
	}
	// Exhausted input without a completed event: transport failure or
	// teardown. Teardown skips the fallback; the surface is gone.
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if !closed {
		s.log.Error("stream ended without completion")
		s.fail()
	}
}

func (s *Session) onChunk(text string) {
	s.mu.Lock()
	if s.status != StatusStreaming {
		s.mu.Unlock()
		return
	}
	s.accumulated.WriteString(text)
	s.updatedAt = time.Now()
	buf := s.accumulated.String()
	s.mu.Unlock()

	// Re-derive the whole candidate from the full buffer; the parser is
	// restartable and a half-written construct heals on the next chunk.
	next := parser.Parse(buf)
	s.publish(next)
	s.applySlot.Schedule(func() { s.applyCandidate(next) })
}

// applyCandidate diffs the candidate against the baseline, patches the
// live document, and schedules a working snapshot. It runs from the
// debounce timer, which Stop cannot cancel once it has started firing,
// so it re-checks status under the lock: a timer landing after the
// terminal transition must not rewind finalized or fallback state.
func (s *Session) applyCandidate(next block.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status != StatusStreaming {
		return
	}
	plan := diff.Compute(s.baseline, next, s.handle.Count())
	patch.Apply(plan, s.handle, s.log)
	s.baseline = plan.Next
	s.updatedAt = time.Now()
	s.sink.Snapshot(next)
}

func (s *Session) onCompleted() {
	s.applySlot.Stop()

	s.mu.Lock()
	buf := s.accumulated.String()
	s.mu.Unlock()
	next := parser.Parse(buf)

	// The final apply and the transition to completed are one critical
	// section: a timer that already started firing either lands before
	// this and is overwritten here, or observes the terminal status and
	// does nothing.
	s.mu.Lock()
	if s.closed || s.status != StatusStreaming {
		s.mu.Unlock()
		return
	}
	plan := diff.Compute(s.baseline, next, s.handle.Count())
	patch.Apply(plan, s.handle, s.log)
	s.baseline = plan.Next
	s.status = StatusCompleted
	s.updatedAt = time.Now()
	s.mu.Unlock()

	s.sink.Finalize(next)
	s.publish(next)
	s.closeObservers()
	s.log.Info("stream completed", "blocks", len(next))
}

// fail discards the stream's output entirely: the live document is fully
// reset to the static skeleton, bypassing the diff engine, and the
// working snapshot is overwritten with it.
func (s *Session) fail() {
	s.applySlot.Stop()

	skel := s.source.Skeleton(s.DocID)

	// Render and status transition are one critical section, same as
	// completion, so a fired debounce timer cannot land between them.
	s.mu.Lock()
	if s.closed || s.status != StatusStreaming {
		s.mu.Unlock()
		return
	}
	s.status = StatusError
	s.baseline = skel
	s.updatedAt = time.Now()
	patch.Apply(diff.Plan{Kind: diff.FullReset, Next: skel}, s.handle, s.log)
	s.mu.Unlock()

	s.sink.Fallback(skel)
	s.publish(skel)
	s.closeObservers()
}

// Close tears the session down: cancel the network read, clear the
// pending debounce timer, and stop the sink. All three always run, so a
// zombie timer can never patch a surface that no longer exists. The
// registry entry (the re-entrancy guard) is cleared by the manager.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.applySlot.Stop()
	s.sink.Stop()
	<-s.done
	s.closeObservers()
}
