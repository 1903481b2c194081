package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdlive/internal/block"
	"github.com/dgallion1/mdlive/internal/store"
)

// handleGetDocument returns the current live document and session status.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	h, ok := s.sessions.Handle(docID)
	if !ok {
		jsonError(w, "unknown document", http.StatusNotFound)
		return
	}

	blocks := h.Snapshot()
	if blocks == nil {
		blocks = block.Document{}
	}
	resp := map[string]any{
		"doc_id": docID,
		"blocks": blocks,
	}
	if sess, ok := s.sessions.Get(docID); ok {
		resp["session"] = sess.Snapshot()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleGetStored reads a persisted snapshot back from durable storage.
func (s *Server) handleGetStored(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	version := r.URL.Query().Get("version")
	var key string
	switch version {
	case "", "working":
		key = store.WorkingKey(docID)
	case "finalized":
		key = store.FinalizedKey(docID)
	default:
		jsonError(w, "version must be working or finalized", http.StatusBadRequest)
		return
	}

	doc, ok, err := s.store.Get(r.Context(), key)
	if err != nil {
		jsonError(w, "read snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "no snapshot", http.StatusNotFound)
		return
	}
	if doc == nil {
		doc = block.Document{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": docID,
		"key":    key,
		"blocks": doc,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
