package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handlePreview re-publishes each parsed candidate document over SSE as
// the stream progresses. The feed is non-authoritative: it reflects
// parses, not what has been applied to the live document, and slow
// consumers may miss intermediate candidates.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	sess, ok := s.sessions.Get(docID)
	if !ok {
		jsonError(w, "no session for document", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	previews, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case doc, ok := <-previews:
			if !ok {
				writeSSE(w, map[string]any{"type": "done", "status": sess.Status()})
				flusher.Flush()
				return
			}
			writeSSE(w, map[string]any{"type": "preview", "blocks": doc})
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
}
