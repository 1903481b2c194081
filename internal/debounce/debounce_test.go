package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleReplacesPending(t *testing.T) {
	s := New(30 * time.Millisecond)
	var first, second atomic.Int32

	s.Schedule(func() { first.Add(1) })
	s.Schedule(func() { second.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if first.Load() != 0 {
		t.Error("replaced task still ran")
	}
	if second.Load() != 1 {
		t.Errorf("newest task ran %d times, want 1", second.Load())
	}
}

func TestStopCancelsPending(t *testing.T) {
	s := New(30 * time.Millisecond)
	var ran atomic.Int32

	s.Schedule(func() { ran.Add(1) })
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	if ran.Load() != 0 {
		t.Error("stopped task still ran")
	}
}

func TestStopIdempotent(t *testing.T) {
	s := New(time.Millisecond)
	s.Stop()
	s.Schedule(func() {})
	s.Stop()
	s.Stop()
}
