package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host/memhost"
	"github.com/dshills/copyline/internal/input"
)

type mockFileManager struct {
	files   map[string]string
	saveErr error
}

func newMockFileManager() *mockFileManager {
	return &mockFileManager{files: make(map[string]string)}
}

func (m *mockFileManager) OpenFile(path string) (string, error) {
	content, ok := m.files[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return content, nil
}

func (m *mockFileManager) SaveFile(path string, content string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.files[path] = content
	return nil
}

func TestSave(t *testing.T) {
	fm := newMockFileManager()
	h := NewHandlerWithManager(fm)
	v := memhost.New("hello")
	ctx := execctx.New(v)

	r := h.HandleAction(input.NewAction(ActionSave, nil), ctx)
	if !errors.Is(r.Error, ErrNoPath) {
		t.Fatalf("save without path = %v", r.Error)
	}

	h.SetPath(v.ID(), "/tmp/a.txt")
	r = h.HandleAction(input.NewAction(ActionSave, nil), ctx)
	if !r.IsOK() {
		t.Fatalf("save = %v", r.Error)
	}
	if fm.files["/tmp/a.txt"] != "hello" {
		t.Errorf("saved = %q", fm.files["/tmp/a.txt"])
	}
	if r.GetDataString(DataPath) != "/tmp/a.txt" || r.Message != "saved a.txt" {
		t.Errorf("result = %q %v", r.Message, r.Data)
	}

	fm.saveErr = errors.New("disk full")
	if r := h.HandleAction(input.NewAction(ActionSave, nil), ctx); !r.IsError() {
		t.Errorf("save error status = %v", r.Status)
	}
}

func TestSaveAs(t *testing.T) {
	fm := newMockFileManager()
	h := NewHandlerWithManager(fm)
	v := memhost.New("text")
	ctx := execctx.New(v)

	if r := h.HandleAction(input.NewAction(ActionSaveAs, nil), ctx); !r.IsError() {
		t.Error("saveAs without path succeeded")
	}

	r := h.HandleAction(input.NewAction(ActionSaveAs, map[string]interface{}{ArgPath: "/x/b.txt"}), ctx)
	if !r.IsOK() {
		t.Fatalf("saveAs = %v", r.Error)
	}
	if p, ok := h.Path(v.ID()); !ok || p != "/x/b.txt" {
		t.Errorf("Path = %q, %v", p, ok)
	}
}

func TestReload(t *testing.T) {
	fm := newMockFileManager()
	h := NewHandlerWithManager(fm)
	v := memhost.New("old contents")
	v.SetSelections([]cursor.Selection{cursor.NewCursorSelection(10)})
	ctx := execctx.New(v)
	h.SetPath(v.ID(), "f.txt")

	if r := h.HandleAction(input.NewAction(ActionReload, nil), ctx); !r.IsError() {
		t.Error("reload of missing file succeeded")
	}

	fm.files["f.txt"] = "new"
	r := h.HandleAction(input.NewAction(ActionReload, nil), ctx)
	if !r.IsOK() {
		t.Fatalf("reload = %v", r.Error)
	}
	if v.String() != "new" {
		t.Errorf("buffer = %q", v.String())
	}
	if sels := v.Selections(); len(sels) != 1 || sels[0].Head != 3 {
		t.Errorf("selections = %v", sels)
	}

	if r := h.HandleAction(input.NewAction(ActionReload, nil), ctx); r.Status != handler.StatusNoOp {
		t.Errorf("unchanged reload = %v", r.Status)
	}
}

func TestOSFileManager(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	var fm OSFileManager
	if err := fm.SaveFile(path, "line\n"); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := fm.OpenFile(path)
	if err != nil || got != "line\n" {
		t.Fatalf("OpenFile = %q, %v", got, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}
}
