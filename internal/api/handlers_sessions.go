package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdlive/internal/session"
)

type startStreamRequest struct {
	Prompt string `json:"prompt"`
}

// handleStartStream begins a streaming session for a document.
func (s *Server) handleStartStream(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	var req startStreamRequest
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			jsonError(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	sess, err := s.sessions.Start(docID, req.Prompt)
	if err != nil {
		if errors.Is(err, session.ErrActive) {
			jsonError(w, "a session is already streaming this document", http.StatusConflict)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(sess.Snapshot())
}

// handleStopStream tears down the active session for a document.
func (s *Server) handleStopStream(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	if err := s.sessions.Stop(docID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			jsonError(w, "no session for document", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"stopped"}`))
}
