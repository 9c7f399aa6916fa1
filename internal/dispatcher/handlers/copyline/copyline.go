package copyline

import (
	"fmt"

	"github.com/dshills/copyline/internal/copyline"
	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/input"
)

// Namespace is the action namespace of this handler.
const Namespace = "copyline"

// Action names.
const (
	ActionMarkCollate = "copyline.markCollate"
	ActionCollate     = "copyline.collate"
	ActionMarkCopy    = "copyline.markCopy"
	ActionCopyLine    = "copyline.copyLine"
)

// Argument keys.
const (
	ArgAdd     = "add"
	ArgCommand = "command"
	ArgShared  = "shared"
	ArgPrompt  = "prompt"
)

// Result data keys.
const (
	DataOutcome  = "outcome"
	DataAdded    = "added"
	DataRejected = "rejected"
	DataPoints   = "points"
)

// Handler dispatches copyline actions to a Service.
type Handler struct {
	svc *copyline.Service
}

// NewHandler creates a handler over svc.
func NewHandler(svc *copyline.Service) *Handler {
	return &Handler{svc: svc}
}

// Namespace implements handler.NamespaceHandler.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle implements handler.NamespaceHandler.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionMarkCollate, ActionCollate, ActionMarkCopy, ActionCopyLine:
		return true
	}
	return false
}

// HandleAction implements handler.NamespaceHandler.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if h.svc == nil {
		return handler.Error(execctx.ErrMissingService)
	}
	if err := ctx.RequireView(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionMarkCollate:
		return h.markCollate(action, ctx)
	case ActionCollate:
		return h.collate(ctx)
	case ActionMarkCopy:
		return h.markCopy(action, ctx)
	case ActionCopyLine:
		return h.copyLine(action, ctx)
	default:
		return handler.Errorf("unknown copyline action: %s", action.Name)
	}
}

func (h *Handler) markCollate(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if !action.Args.GetBoolDefault(ArgAdd, true) {
		h.svc.MarkCollate(ctx.View, false)
		return handler.Success()
	}
	n := h.svc.MarkCollate(ctx.View, true)
	if n == 0 {
		return handler.NoOp()
	}
	return handler.Success().WithData(DataAdded, n)
}

func (h *Handler) collate(ctx *execctx.ExecutionContext) handler.Result {
	res, err := h.svc.Collate(ctx.View)
	if err != nil {
		return handler.Error(err)
	}
	if res.Points == 0 {
		return handler.NoOp()
	}
	return handler.Success().WithData(DataPoints, res.Points)
}

func (h *Handler) markCopy(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if !action.Args.GetBoolDefault(ArgAdd, true) {
		h.svc.MarkCopy(ctx.View, false)
		return handler.Success()
	}

	res := h.svc.MarkCopy(ctx.View, true)
	if res.Added == 0 && res.Rejected == 0 {
		return handler.NoOp()
	}
	return handler.Success().
		WithData(DataAdded, res.Added).
		WithData(DataRejected, res.Rejected)
}

func (h *Handler) copyLine(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	cmd, err := input.ParseCopyCommand(action.Args.GetString(ArgCommand))
	if err != nil {
		return handler.Error(fmt.Errorf("%s: %w", action.Name, err))
	}

	out, err := h.svc.CopyLine(ctx.View, copyline.CopyRequest{
		Command: cmd,
		Shared:  action.Args.GetBool(ArgShared),
		Prompt:  action.Args.GetBoolDefault(ArgPrompt, true),
	})
	if err != nil {
		return handler.Error(err)
	}

	var result handler.Result
	switch out {
	case copyline.OutcomeNone:
		result = handler.NoOp()
	case copyline.OutcomePrompting:
		result = handler.Pending()
	default:
		result = handler.Success()
	}
	return result.WithData(DataOutcome, out.String())
}
