package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/logging"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router
	config   Config
	metrics  *Metrics
	logger   *logging.Logger

	// view is the focused view actions target by default.
	view host.View

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		config:   config,
		logger:   logging.NullLogger,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetLogger sets the logger handed to handlers.
func (d *Dispatcher) SetLogger(logger *logging.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logging.OrNull(logger)
}

// SetView sets the focused view.
func (d *Dispatcher) SetView(view host.View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = view
}

// View returns the focused view.
func (d *Dispatcher) View() host.View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Dispatch executes an action against the focused view.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.DispatchTo(d.View(), action)
}

// DispatchTo executes an action against view.
func (d *Dispatcher) DispatchTo(view host.View, action input.Action) handler.Result {
	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}
	start := time.Now()

	d.mu.RLock()
	ctx := execctx.New(view).WithLogger(d.logger).WithSource(action.Source)
	d.mu.RUnlock()

	if !d.runPreHooks(&action, ctx) {
		return handler.CancelledWithMessage("cancelled by hook")
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		result := handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
		d.runPostHooks(&action, ctx, &result)
		return result
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	d.runPostHooks(&action, ctx, &result)

	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, time.Since(start), result.Status)
	}
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			ctx.Logger.Error("panic in %s: %v\n%s", action.Name, r, stack[:n])

			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, action.Name, r))
			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn func(input.Action, *execctx.ExecutionContext) handler.Result) {
	d.registry.Register(actionName, handler.NewFunc(actionName, fn))
}

// RegisterNamespace registers a namespace handler under its namespace.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// UnregisterHandler removes a handler for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// CanDispatch reports whether some handler claims the action.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.router.Route(actionName) != nil || d.registry.Has(actionName)
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
