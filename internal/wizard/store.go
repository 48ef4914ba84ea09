package wizard

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
)

// Store manages active wizard sessions in memory. It is thread-safe.
// Sessions live as long as the process; nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session in AwaitingRepo.
func (st *Store) Create() *Session {
	s := newSession(newID())
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// Get retrieves a session by id; nil when unknown.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[strings.TrimSpace(id)]
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, strings.TrimSpace(id))
	st.mu.Unlock()
}

func newID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return "session-" + hex.EncodeToString(b[:])
}
