package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/copyline/internal/dispatcher/handler"
)

// Registry manages handler registration by exact action name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]handler.Handler
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]handler.Handler),
	}
}

// Register sets the handler for an action name, replacing any previous one.
func (r *Registry) Register(actionName string, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[actionName] = h
}

// Unregister removes the handler for an action name.
func (r *Registry) Unregister(actionName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, actionName)
}

// Get returns the handler for an action, or nil.
func (r *Registry) Get(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[actionName]
}

// Has returns true if a handler is registered for the action.
func (r *Registry) Has(actionName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[actionName]
	return ok
}

// List returns all registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
