package chathub

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry tracks live connection endpoints by identifier. Resolution of a
// stale identifier reports "not found" and nothing else; the registry never
// owns matching state.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register makes the client resolvable. A reconnect with the same id simply
// replaces the previous endpoint.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.GetUserID()] = c
	log.Info().Str("module", "chathub.registry").Str("user_id", c.GetUserID()).Msg("client registered")
}

// Unregister removes the id, but only while it still maps to c. This keeps
// a lingering pump of a replaced connection from evicting its successor.
func (r *Registry) Unregister(c Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := c.GetUserID()
	if cur, ok := r.clients[id]; !ok || cur != c {
		return false
	}
	delete(r.clients, id)
	log.Info().Str("module", "chathub.registry").Str("user_id", id).Msg("client unregistered")
	return true
}

// Resolve returns the live endpoint for id, or reports it gone.
func (r *Registry) Resolve(id string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
