package stream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClientOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"type\":\"completed\"}\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekrit")
	defer c.Close()

	body, err := c.Open(context.Background(), "doc-1", "write a report")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	events := []Event{}
	for ev := range Decode(body, discard()) {
		events = append(events, ev)
	}
	if len(events) != 1 || events[0].Type != EventCompleted {
		t.Errorf("events = %v", events)
	}
}

func TestClientOpenNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such document", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Open(context.Background(), "doc-1", ""); err == nil {
		t.Fatal("expected error for non-OK response")
	} else if IsRetryable(err) {
		t.Errorf("404 must not be retryable: %v", err)
	}
}

func TestClientOpenRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Open(context.Background(), "doc-1", "")
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestClientOpenWithRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, "data: {\"type\":\"completed\"}\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	body, err := c.OpenWithRetry(context.Background(), "doc-1", "")
	if err != nil {
		t.Fatalf("OpenWithRetry: %v", err)
	}
	body.Close()
	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2", calls.Load())
	}
}
