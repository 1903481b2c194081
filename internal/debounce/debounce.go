// Package debounce provides a single-slot deferred task: scheduling a new
// task replaces any pending one, so only the newest ever runs.
package debounce

import (
	"sync"
	"time"
)

// Slot holds at most one pending task.
type Slot struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func New(delay time.Duration) *Slot {
	return &Slot{delay: delay}
}

// Schedule arranges for fn to run after the slot's delay, cancelling any
// task scheduled earlier that has not yet fired.
func (s *Slot) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Stop cancels the pending task, if any. It must be called on teardown so
// a zombie timer cannot fire against a surface that no longer exists.
func (s *Slot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
