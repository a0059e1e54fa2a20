package core

import "sync"

// Registry maps room ids to the set of currently connected sessions.
// Membership mutations and fan-out reads are serialized by the mutex so
// a broadcast never sees a session mid-removal.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*Session]struct{}),
	}
}

// Register adds the session under its room bucket. Returns false if it
// was already present.
func (r *Registry) Register(roomID string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.rooms[roomID]
	if !ok {
		bucket = make(map[*Session]struct{})
		r.rooms[roomID] = bucket
	}
	if _, exists := bucket[s]; exists {
		return false
	}
	bucket[s] = struct{}{}
	return true
}

// Unregister removes the session from its room bucket. An emptied
// bucket is dropped; message history is unaffected.
func (r *Registry) Unregister(roomID string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	if _, exists := bucket[s]; !exists {
		return false
	}
	delete(bucket, s)
	if len(bucket) == 0 {
		delete(r.rooms, roomID)
	}
	return true
}

// SessionsOf returns a snapshot of the room's sessions for fan-out.
func (r *Registry) SessionsOf(roomID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	sessions := make([]*Session, 0, len(bucket))
	for s := range bucket {
		sessions = append(sessions, s)
	}
	return sessions
}

// AllSessions returns every registered session across all rooms.
func (r *Registry) AllSessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*Session
	for _, bucket := range r.rooms {
		for s := range bucket {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// Rooms returns the number of rooms with at least one session.
func (r *Registry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
