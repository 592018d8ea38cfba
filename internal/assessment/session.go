package assessment

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Session owns the State of one audit session.
//
// The published State is never mutated in place: Update works on a clone
// and swaps it in only when the mutation succeeds, and Reset swaps in a
// fresh State. Readers holding a snapshot therefore never observe a
// half-applied write or a half-reset audit.
type Session struct {
	ID string

	mu    sync.Mutex // serializes writers
	state atomic.Pointer[State]
}

// NewSession creates a session with an empty State.
func NewSession(id string) *Session {
	s := &Session{ID: id}
	s.state.Store(New())
	return s
}

// Snapshot returns the current State. Callers must treat it as read-only.
func (s *Session) Snapshot() *State {
	return s.state.Load()
}

// Update applies fn to a copy of the current State and publishes the
// copy only if fn returns nil. On error the previous State is kept.
func (s *Session) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.state.Store(next)
	return nil
}

// Reset replaces the whole State with a fresh empty one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(New())
}

// Registry isolates sessions from each other, keyed by session id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = NewSession(id)
		r.sessions[id] = s
	}
	return s
}

// Drop forgets a session. Its State is discarded.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// IDs returns the ids of live sessions in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
