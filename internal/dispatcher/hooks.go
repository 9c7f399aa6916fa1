package dispatcher

import (
	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/logging"
)

// PreDispatchHook is called before an action is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	// PreDispatch may modify the action or context.
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook logs every dispatch and its outcome.
type LoggingHook struct {
	Logger *logging.Logger
}

// NewLoggingHook creates a logging hook.
func NewLoggingHook(logger *logging.Logger) *LoggingHook {
	return &LoggingHook{Logger: logging.OrNull(logger).WithComponent("dispatch")}
}

// PreDispatch logs the action being dispatched.
func (h *LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.Logger.Debug("dispatching %s from %s (view=%s)", action.Name, action.Source, ctx.ViewID())
	return true
}

// PostDispatch logs the dispatch result. Errors are logged at error level.
func (h *LoggingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.IsError() {
		h.Logger.Error("%s failed: %v", action.Name, result.Error)
		return
	}
	h.Logger.Debug("%s -> %s", action.Name, result.Status)
}

// NotifyHook shows result messages and errors in the view's status area.
type NotifyHook struct{}

// PostDispatch implements PostDispatchHook.
func (NotifyHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if ctx.View == nil {
		return
	}
	switch {
	case result.IsError() && result.Error != nil:
		ctx.View.Notify(action.Name + ": " + result.Error.Error())
	case result.Message != "":
		ctx.View.Notify(result.Message)
	}
}
