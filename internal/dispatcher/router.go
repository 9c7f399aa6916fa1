package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/copyline/internal/dispatcher/handler"
)

// Router routes actions to handlers using namespace prefixes.
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]handler.NamespaceHandler
}

// NewRouter creates a new action router.
func NewRouter() *Router {
	return &Router{
		namespaces: make(map[string]handler.NamespaceHandler),
	}
}

// RegisterNamespace registers a handler for all actions in a namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// Route finds the handler for an action. Returns nil if the namespace is
// unknown or its handler does not claim the action.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ns := ExtractNamespace(actionName)
	if ns == "" {
		return nil
	}
	h, ok := r.namespaces[ns]
	if !ok || !h.CanHandle(actionName) {
		return nil
	}
	return handler.NewNamespaceAdapter(h)
}

// HasNamespace returns true if a handler is registered for the namespace.
func (r *Router) HasNamespace(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[namespace]
	return ok
}

// Namespaces returns all registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractNamespace extracts the namespace from "namespace.action".
// Returns an empty string if there is no separator.
func ExtractNamespace(actionName string) string {
	idx := strings.Index(actionName, ".")
	if idx < 0 {
		return ""
	}
	return actionName[:idx]
}

// BuildActionName joins a namespace and an action.
func BuildActionName(namespace, action string) string {
	if namespace == "" {
		return action
	}
	return namespace + "." + action
}
