// Package handler provides the handler interface and result types for
// action dispatch.
package handler

import (
	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/input"
)

// Handler processes a specific action or set of actions.
type Handler interface {
	// Handle executes the action and returns a result.
	Handle(action input.Action, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool
}

// Func adapts a plain function to Handler for a single action name.
type Func struct {
	Name string
	Fn   func(action input.Action, ctx *execctx.ExecutionContext) Result
}

// NewFunc creates a Func handling name.
func NewFunc(name string, fn func(action input.Action, ctx *execctx.ExecutionContext) Result) *Func {
	return &Func{Name: name, Fn: fn}
}

// Handle implements Handler.
func (f *Func) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	if f.Fn == nil {
		return Errorf("handler function is nil")
	}
	return f.Fn(action, ctx)
}

// CanHandle implements Handler.
func (f *Func) CanHandle(actionName string) bool {
	return actionName == f.Name
}

// NamespaceHandler handles all actions within a namespace.
// A namespace is the prefix before the first dot (e.g., "copyline" in
// "copyline.collate").
type NamespaceHandler interface {
	// HandleAction handles an action within this namespace.
	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool

	// Namespace returns the namespace prefix.
	Namespace() string
}

// namespaceAdapter adapts NamespaceHandler to Handler.
type namespaceAdapter struct {
	h NamespaceHandler
}

// NewNamespaceAdapter creates a Handler from a NamespaceHandler.
func NewNamespaceAdapter(h NamespaceHandler) Handler {
	return &namespaceAdapter{h: h}
}

func (a *namespaceAdapter) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	return a.h.HandleAction(action, ctx)
}

func (a *namespaceAdapter) CanHandle(actionName string) bool {
	return a.h.CanHandle(actionName)
}

// BaseNamespaceHandler is a NamespaceHandler built from registered functions.
// Plugins use it to add their own namespaces.
type BaseNamespaceHandler struct {
	namespace string
	actions   map[string]func(action input.Action, ctx *execctx.ExecutionContext) Result
}

// NewBaseNamespaceHandler creates a new BaseNamespaceHandler.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{
		namespace: namespace,
		actions:   make(map[string]func(action input.Action, ctx *execctx.ExecutionContext) Result),
	}
}

// Register registers a handler function for an action name.
func (h *BaseNamespaceHandler) Register(actionName string, fn func(action input.Action, ctx *execctx.ExecutionContext) Result) {
	h.actions[actionName] = fn
}

// Namespace implements NamespaceHandler.
func (h *BaseNamespaceHandler) Namespace() string {
	return h.namespace
}

// CanHandle implements NamespaceHandler.
func (h *BaseNamespaceHandler) CanHandle(actionName string) bool {
	_, ok := h.actions[actionName]
	return ok
}

// HandleAction implements NamespaceHandler.
func (h *BaseNamespaceHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result {
	fn, ok := h.actions[action.Name]
	if !ok {
		return Errorf("unknown action in namespace %s: %s", h.namespace, action.Name)
	}
	return fn(action, ctx)
}
