package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mdlive/internal/outline"
	"github.com/dgallion1/mdlive/internal/patch"
	"github.com/dgallion1/mdlive/internal/store"
	"github.com/dgallion1/mdlive/internal/stream"
)

// ErrActive is returned when a session is started for a document that
// already has one streaming.
var ErrActive = errors.New("session already active for document")

// ErrNotFound is returned when no session exists for a document.
var ErrNotFound = errors.New("no session for document")

// Config tunes session behavior.
type Config struct {
	PatchDebounce    time.Duration // delay before a candidate is applied
	SnapshotDebounce time.Duration // delay before a working snapshot is written
	SessionTTL       time.Duration // how long terminal sessions stay queryable
}

// Manager is the per-document session registry. The registry entry is the
// re-entrancy guard: a second session for the same document cannot start
// while one is active.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	handles  map[string]*patch.Memory

	client *stream.Client
	store  store.Store
	source outline.Source
	cfg    Config
	log    *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewManager(client *stream.Client, st store.Store, src outline.Source, cfg Config, log *slog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions: map[string]*Session{},
		handles:  map[string]*patch.Memory{},
		client:   client,
		store:    st,
		source:   src,
		cfg:      cfg,
		log:      log,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Run starts background eviction of stale terminal sessions.
func (m *Manager) Run(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.baseCtx.Done():
				return
			case <-ticker.C:
				m.evict()
			}
		}
	}()
}

// Start begins streaming for docID. Sessions are bound to the manager's
// lifetime, not the caller's request.
func (m *Manager) Start(docID, prompt string) (*Session, error) {
	m.mu.Lock()
	if existing, ok := m.sessions[docID]; ok && !existing.terminal() {
		m.mu.Unlock()
		return nil, ErrActive
	}
	h, ok := m.handles[docID]
	if !ok {
		h = patch.NewMemory()
		m.handles[docID] = h
	}

	ctx, cancel := context.WithCancel(m.baseCtx)
	sink := store.NewSink(m.store, docID, m.cfg.SnapshotDebounce, m.log)
	s := newSession(docID, h, sink, m.source, m.cfg.PatchDebounce, cancel, m.log)
	m.sessions[docID] = s
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		s.start(ctx, m.client, prompt)
	}()
	return s, nil
}

// Stop tears down the active session for docID.
func (m *Manager) Stop(docID string) error {
	m.mu.Lock()
	s, ok := m.sessions[docID]
	if ok {
		delete(m.sessions, docID)
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// Get returns the session for docID, if any.
func (m *Manager) Get(docID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[docID]
	return s, ok
}

// Handle returns the live document surface for docID, if one exists.
func (m *Manager) Handle(docID string) (*patch.Memory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[docID]
	return h, ok
}

// Shutdown tears down every session and waits for their loops to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = map[string]*Session{}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) evict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for docID, s := range m.sessions {
		info := s.Snapshot()
		if (info.Status == StatusCompleted || info.Status == StatusError) && now.Sub(info.UpdatedAt) > m.cfg.SessionTTL {
			delete(m.sessions, docID)
		}
	}
}
