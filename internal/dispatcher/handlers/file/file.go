package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input"
)

// Namespace is the action namespace of this handler.
const Namespace = "file"

// Action names.
const (
	ActionSave   = "file.save"
	ActionSaveAs = "file.saveAs"
	ActionReload = "file.reload"
)

// ArgPath is the target path of file.saveAs.
const ArgPath = "path"

// DataPath is the result key holding the path written or read.
const DataPath = "path"

// ErrNoPath is returned when a view has no file path to save to.
var ErrNoPath = errors.New("file: view has no path")

// FileManager provides file system operations.
type FileManager interface {
	// OpenFile returns the content of path.
	OpenFile(path string) (string, error)
	// SaveFile writes content to path.
	SaveFile(path string, content string) error
}

// OSFileManager reads and writes the local filesystem.
type OSFileManager struct{}

// OpenFile implements FileManager.
func (OSFileManager) OpenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveFile implements FileManager. It writes a sibling temp file and
// renames it over path.
func (OSFileManager) SaveFile(path string, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(name, mode); err != nil {
		return err
	}
	return os.Rename(name, path)
}

// Handler implements namespace-based file handling.
type Handler struct {
	fm FileManager

	mu    sync.RWMutex
	paths map[host.ViewID]string
}

// NewHandler creates a file handler on the local filesystem.
func NewHandler() *Handler {
	return NewHandlerWithManager(OSFileManager{})
}

// NewHandlerWithManager creates a file handler using fm.
func NewHandlerWithManager(fm FileManager) *Handler {
	return &Handler{
		fm:    fm,
		paths: make(map[host.ViewID]string),
	}
}

// Manager returns the file manager documents are read and written through.
func (h *Handler) Manager() FileManager {
	return h.fm
}

// SetPath associates path with a view.
func (h *Handler) SetPath(id host.ViewID, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths[id] = path
}

// Path returns the path associated with a view.
func (h *Handler) Path(id host.ViewID) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.paths[id]
	return p, ok
}

// Namespace returns the file namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionSave, ActionSaveAs, ActionReload:
		return true
	}
	return false
}

// HandleAction processes a file action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.RequireView(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionSave:
		path, ok := h.Path(ctx.ViewID())
		if !ok {
			return handler.Error(ErrNoPath)
		}
		return h.save(ctx, path)
	case ActionSaveAs:
		path := action.Args.GetString(ArgPath)
		if path == "" {
			return handler.Errorf("%s: missing %q argument", action.Name, ArgPath)
		}
		res := h.save(ctx, path)
		if res.IsOK() {
			h.SetPath(ctx.ViewID(), path)
		}
		return res
	case ActionReload:
		return h.reload(ctx)
	default:
		return handler.Errorf("unknown file action: %s", action.Name)
	}
}

func (h *Handler) save(ctx *execctx.ExecutionContext, path string) handler.Result {
	text := ctx.View.Text()
	if err := h.fm.SaveFile(path, text.String()); err != nil {
		return handler.Error(fmt.Errorf("save %s: %w", path, err))
	}
	ctx.Logger.Info("saved %s (%d bytes)", path, text.Len())
	return handler.Success().
		WithMessage("saved " + filepath.Base(path)).
		WithData(DataPath, path)
}

func (h *Handler) reload(ctx *execctx.ExecutionContext) handler.Result {
	path, ok := h.Path(ctx.ViewID())
	if !ok {
		return handler.Error(ErrNoPath)
	}
	content, err := h.fm.OpenFile(path)
	if err != nil {
		return handler.Error(fmt.Errorf("reload %s: %w", path, err))
	}

	view := ctx.View
	if view.Text().String() == content {
		return handler.NoOp()
	}

	head := 0
	if sels := view.Selections(); len(sels) > 0 {
		head = sels[0].Head
	}
	err = view.Edit(ActionReload, func(e host.Editor) error {
		return e.Replace(buffer.Range{Start: 0, End: view.Size()}, content)
	})
	if err != nil {
		return handler.Error(err)
	}
	view.SetSelections([]cursor.Selection{cursor.NewCursorSelection(view.Text().Clamp(head))})
	return handler.Success().WithData(DataPath, path)
}
