package store

import (
	"context"
	"sync"

	"github.com/clinformatics/formstudio/internal/form"
)

// Manager hands out editing sessions keyed by form id. Each session is one
// Store; reopening an id returns the live session so the builder canvas and
// the live channel observe the same document.
type Manager struct {
	mu       sync.Mutex
	persist  Persistence
	sessions map[string]*Store
}

// NewManager creates a session manager over the persistence collaborator.
func NewManager(persist Persistence) *Manager {
	return &Manager{
		persist:  persist,
		sessions: make(map[string]*Store),
	}
}

// Create starts a session holding a fresh empty form and returns it.
func (m *Manager) Create(projectID string) *Store {
	s := New(m.persist)
	f := s.CreateForm(projectID)
	m.mu.Lock()
	m.sessions[f.ID] = s
	m.mu.Unlock()
	return s
}

// Instantiate starts a session from a template body. The session stamps a
// fresh identity onto the body before registration.
func (m *Manager) Instantiate(projectID string, body *form.Form) *Store {
	s := New(m.persist)
	f := s.FromTemplate(projectID, body)
	m.mu.Lock()
	m.sessions[f.ID] = s
	m.mu.Unlock()
	return s
}

// Open returns the live session for the id, loading the form from
// persistence when no session exists yet.
func (m *Manager) Open(ctx context.Context, id string) (*Store, error) {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	s := New(m.persist)
	if err := s.Load(ctx, id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = s
	return s, nil
}

// Adopt installs a document (e.g. an instantiated template) as a session.
func (m *Manager) Adopt(s *Store) {
	f := s.Form()
	if f == nil {
		return
	}
	m.mu.Lock()
	m.sessions[f.ID] = s
	m.mu.Unlock()
}

// Close drops the session for the id. In-flight saves are unaffected.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
