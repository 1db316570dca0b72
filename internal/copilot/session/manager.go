package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/common/metrics"
	"marigold-copilot/internal/models"
)

var (
	ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")
	ErrTooManySessions = errors.New("TOO_MANY_SESSIONS")
)

// SurfaceLookup resolves a surface id; *registry.SurfaceRegistry implements it.
type SurfaceLookup interface {
	Lookup(id string) (models.Surface, error)
}

// Manager owns the open sessions of a process, one per mounted surface.
type Manager struct {
	surfaces    SurfaceLookup
	responder   Responder
	opts        Options
	maxSessions int
	log         logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager. maxSessions <= 0 means unbounded.
func NewManager(surfaces SurfaceLookup, responder Responder, opts Options, maxSessions int) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		surfaces:    surfaces,
		responder:   responder,
		opts:        opts,
		maxSessions: maxSessions,
		log:         opts.Logger,
		sessions:    make(map[string]*Session),
	}
}

// Open mounts a new session on the given surface.
func (m *Manager) Open(surfaceID string) (*Session, error) {
	surface, err := m.surfaces.Lookup(surfaceID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	s := New(uuid.NewString(), surface, m.responder, m.opts)
	m.sessions[s.ID()] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))

	m.log.Info("session opened", map[string]interface{}{"sessionId": s.ID(), "surface": surfaceID})
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close disposes the session and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// CloseAll disposes every open session; used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	metrics.SessionsActive.Set(0)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	if len(sessions) > 0 {
		m.log.Info("all sessions closed", map[string]interface{}{"count": len(sessions)})
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) MaxSessions() int { return m.maxSessions }
