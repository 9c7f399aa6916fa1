// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/logging"
)

// ExecutionContext carries everything a handler may act on.
type ExecutionContext struct {
	// View is the view the action targets.
	View host.View

	// Source tells where the action came from.
	Source input.ActionSource

	// Logger is scoped to the dispatch.
	Logger *logging.Logger

	// Data carries values between hooks and handlers.
	Data map[string]interface{}
}

// New creates a context targeting view.
func New(view host.View) *ExecutionContext {
	return &ExecutionContext{
		View:   view,
		Logger: logging.NullLogger,
		Data:   make(map[string]interface{}),
	}
}

// WithLogger returns the context with logger set.
func (ctx *ExecutionContext) WithLogger(logger *logging.Logger) *ExecutionContext {
	ctx.Logger = logging.OrNull(logger)
	return ctx
}

// WithSource returns the context with the action source set.
func (ctx *ExecutionContext) WithSource(src input.ActionSource) *ExecutionContext {
	ctx.Source = src
	return ctx
}

// ViewID returns the id of the target view, or "" without one.
func (ctx *ExecutionContext) ViewID() host.ViewID {
	if ctx.View == nil {
		return ""
	}
	return ctx.View.ID()
}

// RequireView returns ErrMissingView when no view is set.
func (ctx *ExecutionContext) RequireView() error {
	if ctx.View == nil {
		return ErrMissingView
	}
	return nil
}

// Set stores a value for later hooks or handlers.
func (ctx *ExecutionContext) Set(key string, value interface{}) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}
	ctx.Data[key] = value
}

// Get returns a stored value.
func (ctx *ExecutionContext) Get(key string) (interface{}, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}
