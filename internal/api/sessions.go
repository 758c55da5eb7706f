package api

import (
	"sync"

	"github.com/devassist/internal/workflow"
)

// SessionStore holds active sessions in memory. Sessions live for the
// process lifetime only; there is no durable storage.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*workflow.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*workflow.Session)}
}

// Put stores or replaces a session.
func (s *SessionStore) Put(sess *workflow.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session with the given ID, or nil.
func (s *SessionStore) Get(id string) *workflow.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}
