package chat

import (
	"sync"
)

// Registry is the presence registry: the mutex-guarded map of live
// connections keyed by connection id, with insertion order preserved so
// roster projections are deterministic.
//
// Multiple connections may reference the same persistent user id
// (multi-device); lookups support both keys.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	order   []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Admit stores the client under its connection id. If an entry already exists
// for that id the existing client is returned unchanged (idempotent re-admit
// guard).
func (r *Registry) Admit(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.clients[c.id]; ok {
		return existing
	}

	r.clients[c.id] = c
	r.order = append(r.order, c.id)
	return c
}

// Remove deletes the entry for the connection id.
// It reports whether an entry was actually removed; removing an absent id is a no-op.
func (r *Registry) Remove(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[connectionID]; !ok {
		return false
	}

	delete(r.clients, connectionID)
	for i, id := range r.order {
		if id == connectionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Users projects all live connections to their display profiles in insertion order.
func (r *Registry) Users() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]Profile, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.clients[id].Profile())
	}
	return users
}

// ByConnectionID returns the client for the connection id, or nil.
func (r *Registry) ByConnectionID(connectionID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.clients[connectionID]
}

// ByUserID returns the first live connection for the persistent user id, or nil.
// With multiple sessions for one user the earliest-admitted connection wins.
func (r *Registry) ByUserID(userID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if c := r.clients[id]; c.Identity().UserID == userID {
			return c
		}
	}
	return nil
}

// AllByUserID returns every live connection for the persistent user id, in
// insertion order. Moderation uses this to reach all of a user's devices.
func (r *Registry) AllByUserID(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*Client
	for _, id := range r.order {
		if c := r.clients[id]; c.Identity().UserID == userID {
			sessions = append(sessions, c)
		}
	}
	return sessions
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// Broadcast enqueues a prebuilt frame to every live connection.
func (r *Registry) Broadcast(frame []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		r.clients[id].enqueue(frame)
	}
}
