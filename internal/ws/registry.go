package ws

import (
	"sync"

	"github.com/coder/websocket"
)

// Registry tracks every live connection for the lifetime of the process. The
// lobby a connection belongs to is only ever a code reference; lobby state
// stays with the lobby actor.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*websocket.Conn)}
}

func (r *Registry) add(id string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = conn
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll terminates every live connection; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(r.conns, id)
	}
}
