package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mfakhry/pantry-orders/internal/cart"
)

// sessionRegistry maps session ids to carts. The mutex guards the map only;
// each cart belongs to exactly one browser session and is mutated by one
// request at a time.
type sessionRegistry struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		carts: make(map[string]*cart.Cart),
	}
}

func (r *sessionRegistry) Create() string {
	id := uuid.New().String()

	r.mu.Lock()
	r.carts[id] = cart.New()
	r.mu.Unlock()

	return id
}

func (r *sessionRegistry) Get(id string) (*cart.Cart, bool) {
	r.mu.RLock()
	c, ok := r.carts[id]
	r.mu.RUnlock()
	return c, ok
}
