package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/copyline/internal/logging"
	plua "github.com/dshills/copyline/internal/plugin/lua"
)

// Module is a set of Go functions exposed to Lua under one name.
type Module interface {
	// Name is the global and require name of the module.
	Name() string
	// Functions returns the module's functions keyed by Lua name.
	Functions() map[string]lua.LGFunction
}

// Options configures a Host.
type Options struct {
	Timeout time.Duration
	Logger  *logging.Logger
}

// Host runs scripts in a single Lua state.
type Host struct {
	mu      sync.Mutex
	state   *plua.State
	modules map[string]Module
	loaded  []string
	logger  *logging.Logger
}

// NewHost creates a host with a fresh sandboxed state.
func NewHost(opts Options) *Host {
	var stateOpts []plua.StateOption
	if opts.Timeout > 0 {
		stateOpts = append(stateOpts, plua.WithExecutionTimeout(opts.Timeout))
	}
	return &Host{
		state:   plua.NewState(stateOpts...),
		modules: make(map[string]Module),
		logger:  logging.OrNull(opts.Logger).WithComponent("plugin"),
	}
}

// Register exposes mod to scripts run afterwards.
func (h *Host) Register(mod Module) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := mod.Name()
	if _, ok := h.modules[name]; ok {
		return fmt.Errorf("%w: %s", ErrModuleExists, name)
	}
	h.modules[name] = mod

	funcs := mod.Functions()
	h.state.PreloadModule(name, func(L *lua.LState) int {
		L.Push(L.SetFuncs(L.NewTable(), funcs))
		return 1
	})
	h.state.RegisterModule(name, funcs)
	return nil
}

// Modules returns the registered module names, sorted.
func (h *Host) Modules() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.modules))
	for name := range h.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunFile executes the script at path.
func (h *Host) RunFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("plugin %s: %w", path, err)
	}
	h.mu.Lock()
	h.loaded = append(h.loaded, path)
	h.mu.Unlock()
	h.logger.Info("loaded %s", path)
	return nil
}

// RunString executes code. name labels errors.
func (h *Host) RunString(name, code string) error {
	if err := h.state.DoString(code); err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	return nil
}

// RunFiles executes each script in order. A failing script is logged and
// skipped; the joined errors are returned.
func (h *Host) RunFiles(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := h.RunFile(p); err != nil {
			h.logger.Error("%v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Loaded returns the scripts that ran without error.
func (h *Host) Loaded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.loaded...)
}

// State returns the underlying Lua state.
func (h *Host) State() *plua.State {
	return h.state
}

// Close releases the Lua state.
func (h *Host) Close() error {
	return h.state.Close()
}
