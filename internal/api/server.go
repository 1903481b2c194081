package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mdlive/internal/config"
	"github.com/dgallion1/mdlive/internal/session"
	"github.com/dgallion1/mdlive/internal/store"
)

// Server is the HTTP API surface for mdlive.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	store    store.Store
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, st store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		store:    st,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.MdliveAPIKey, s.log))

		r.Post("/api/documents/{docID}/stream", s.handleStartStream)
		r.Delete("/api/documents/{docID}/stream", s.handleStopStream)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Get("/api/documents/{docID}/stored", s.handleGetStored)
		r.Get("/api/documents/{docID}/preview", s.handlePreview)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
