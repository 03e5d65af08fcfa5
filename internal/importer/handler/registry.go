package handler

import (
	"sync"
	"time"

	"order-import-service/internal/importer/service"
)

// registry holds previewed sessions between the analyze and commit calls.
// Sessions are in-memory only: a restart discards pending previews, which is
// fine since a preview is cheap to redo.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
	ttl      time.Duration
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{
		sessions: make(map[string]*service.Session),
		ttl:      ttl,
	}
}

func (r *registry) put(s *service.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	r.sessions[s.ID] = s
}

func (r *registry) get(id string) (*service.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// evictLocked drops expired and consumed sessions. Called under mu.
func (r *registry) evictLocked() {
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.Created.Before(cutoff) {
			delete(r.sessions, id)
			continue
		}
		switch s.State() {
		case service.StateCommitted, service.StateCancelled:
			delete(r.sessions, id)
		}
	}
}
