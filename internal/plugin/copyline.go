package plugin

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/copyline/internal/dispatcher/handler"
	clhandler "github.com/dshills/copyline/internal/dispatcher/handlers/copyline"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/logging"
	plua "github.com/dshills/copyline/internal/plugin/lua"
)

// Dispatcher runs actions against the focused view.
type Dispatcher interface {
	Dispatch(action input.Action) handler.Result
	View() host.View
}

// Binder attaches an action to a key sequence.
type Binder interface {
	Bind(keys string, action input.Action) error
}

// CopylineModule is the "copyline" Lua module.
type CopylineModule struct {
	disp   Dispatcher
	binder Binder
	logger *logging.Logger
}

// NewCopylineModule creates the module. binder may be nil, in which case
// bind raises an error.
func NewCopylineModule(disp Dispatcher, binder Binder, logger *logging.Logger) *CopylineModule {
	return &CopylineModule{
		disp:   disp,
		binder: binder,
		logger: logging.OrNull(logger).WithComponent("lua"),
	}
}

// Name implements Module.
func (m *CopylineModule) Name() string {
	return "copyline"
}

// Functions implements Module.
func (m *CopylineModule) Functions() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"mark_collate": m.markCollate,
		"collate":      m.collate,
		"mark_copy":    m.markCopy,
		"copy_line":    m.copyLine,
		"dispatch":     m.dispatch,
		"bind":         m.bind,
		"notify":       m.notify,
		"log":          m.log,
	}
}

// run dispatches an action from Lua and raises on error.
func (m *CopylineModule) run(L *lua.LState, name string, args map[string]any) handler.Result {
	if m.disp.View() == nil {
		L.RaiseError("%s: %v", name, ErrNoView)
	}
	action := input.NewAction(name, args).WithSource(input.SourcePlugin)
	res := m.disp.Dispatch(action)
	if res.IsError() {
		L.RaiseError("%s: %v", name, res.Error)
	}
	return res
}

// mark_collate([add=true]) -> count
func (m *CopylineModule) markCollate(L *lua.LState) int {
	add := L.OptBool(1, true)
	res := m.run(L, clhandler.ActionMarkCollate, map[string]any{clhandler.ArgAdd: add})
	L.Push(lua.LNumber(res.GetDataInt(clhandler.DataAdded)))
	return 1
}

// collate() -> points
func (m *CopylineModule) collate(L *lua.LState) int {
	res := m.run(L, clhandler.ActionCollate, nil)
	L.Push(lua.LNumber(res.GetDataInt(clhandler.DataPoints)))
	return 1
}

// mark_copy([add=true]) -> added, rejected
func (m *CopylineModule) markCopy(L *lua.LState) int {
	add := L.OptBool(1, true)
	res := m.run(L, clhandler.ActionMarkCopy, map[string]any{clhandler.ArgAdd: add})
	L.Push(lua.LNumber(res.GetDataInt(clhandler.DataAdded)))
	L.Push(lua.LNumber(res.GetDataInt(clhandler.DataRejected)))
	return 2
}

// copy_line([{command=, shared=, prompt=}]) -> outcome
func (m *CopylineModule) copyLine(L *lua.LState) int {
	args := plua.NewBridge(L).TableToMap(L.OptTable(1, nil))
	res := m.run(L, clhandler.ActionCopyLine, args)
	L.Push(lua.LString(res.GetDataString(clhandler.DataOutcome)))
	return 1
}

// dispatch(name[, args]) -> status, message
func (m *CopylineModule) dispatch(L *lua.LState) int {
	name := L.CheckString(1)
	args := plua.NewBridge(L).TableToMap(L.OptTable(2, nil))
	res := m.run(L, name, args)
	L.Push(lua.LString(res.Status.String()))
	L.Push(lua.LString(res.Message))
	return 2
}

// bind(keys, action[, args])
func (m *CopylineModule) bind(L *lua.LState) int {
	keys := L.CheckString(1)
	name := L.CheckString(2)
	args := plua.NewBridge(L).TableToMap(L.OptTable(3, nil))
	if m.binder == nil {
		L.RaiseError("bind: no keymap available")
		return 0
	}
	if err := m.binder.Bind(keys, input.NewAction(name, args)); err != nil {
		L.RaiseError("bind %s: %v", keys, err)
	}
	return 0
}

// notify(message)
func (m *CopylineModule) notify(L *lua.LState) int {
	msg := L.CheckString(1)
	if v := m.disp.View(); v != nil {
		v.Notify(msg)
		return 0
	}
	m.logger.Info("%s", msg)
	return 0
}

// log(message[, level="info"])
func (m *CopylineModule) log(L *lua.LState) int {
	msg := L.CheckString(1)
	switch level := L.OptString(2, "info"); logging.ParseLevel(level) {
	case logging.LevelDebug:
		m.logger.Debug("%s", msg)
	case logging.LevelWarn:
		m.logger.Warn("%s", msg)
	case logging.LevelError:
		m.logger.Error("%s", msg)
	default:
		m.logger.Info("%s", msg)
	}
	return 0
}

var _ Module = (*CopylineModule)(nil)
