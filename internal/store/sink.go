package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/mdlive/internal/block"
	"github.com/dgallion1/mdlive/internal/debounce"
)

// Sink writes debounced, fire-and-forget snapshots of one document's
// working copy. Persistence failures are logged and never surfaced; the
// next debounce cycle naturally retries with fresher content.
type Sink struct {
	store   Store
	docID   string
	slot    *debounce.Slot
	timeout time.Duration
	log     *slog.Logger
}

func NewSink(s Store, docID string, delay time.Duration, log *slog.Logger) *Sink {
	return &Sink{
		store:   s,
		docID:   docID,
		slot:    debounce.New(delay),
		timeout: 10 * time.Second,
		log:     log,
	}
}

// Snapshot schedules a debounced write of doc under the working key,
// replacing any pending one.
func (s *Sink) Snapshot(doc block.Document) {
	snap := doc.Clone()
	s.slot.Schedule(func() {
		s.write(WorkingKey(s.docID), snap)
	})
}

// Finalize cancels any pending snapshot and writes doc under both the
// finalized and working keys, synchronously but still fire-and-forget.
func (s *Sink) Finalize(doc block.Document) {
	s.slot.Stop()
	s.write(FinalizedKey(s.docID), doc)
	s.write(WorkingKey(s.docID), doc)
}

// Fallback cancels any pending snapshot and overwrites the working key
// with the fallback document. The finalized key is left untouched.
func (s *Sink) Fallback(doc block.Document) {
	s.slot.Stop()
	s.write(WorkingKey(s.docID), doc)
}

// Stop cancels any pending snapshot.
func (s *Sink) Stop() {
	s.slot.Stop()
}

func (s *Sink) write(key string, doc block.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Put(ctx, key, doc); err != nil {
		s.log.Warn("snapshot write failed", "key", key, "error", err)
	}
}
