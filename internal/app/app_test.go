package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/input/key"
	"github.com/dshills/copyline/internal/renderer/backend"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

type mockFileManager struct {
	files map[string]string
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
	m.files[path] = content
	return nil
}

const configPath = "/cfg/config.toml"

func newTestApp(t *testing.T, fsys memFS, fm *mockFileManager, file string) (*Application, *backend.Memory) {
	t.Helper()
	mem := backend.NewMemory(40, 10)
	app, err := New(Options{
		ConfigPath:  configPath,
		File:        file,
		Backend:     mem,
		FileManager: fm,
		ConfigFS:    fsys,
		NoEnv:       true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app, mem
}

func press(t *testing.T, app *Application, specs ...string) {
	t.Helper()
	for _, spec := range specs {
		ev, err := key.Parse(spec)
		if err != nil {
			t.Fatalf("key.Parse(%q) = %v", spec, err)
		}
		app.HandleKey(ev)
	}
}

func typeText(app *Application, s string) {
	for _, r := range s {
		app.HandleKey(key.Rune(r, 0))
	}
}

func TestNewLoadsConfigAndDocument(t *testing.T) {
	fm := newMockFileManager()
	fm.files["/w/a.txt"] = "hello\n"
	fsys := memFS{configPath: "[prompt]\nlabel = \"Value\"\n[history]\ncapacity = 5\n"}

	app, _ := newTestApp(t, fsys, fm, "/w/a.txt")

	if got := app.Document().View.String(); got != "hello\n" {
		t.Errorf("document = %q", got)
	}
	if got := app.Document().Name(); got != "a.txt" {
		t.Errorf("name = %q", got)
	}
	opts := app.Service().Options()
	if opts.PromptLabel != "Value" || opts.HistoryCapacity != 5 {
		t.Errorf("service options = %+v", opts)
	}
	if app.Document().IsModified() {
		t.Error("fresh document is modified")
	}
}

func TestNewMissingFileOpensEmpty(t *testing.T) {
	app, _ := newTestApp(t, memFS{}, newMockFileManager(), "/w/new.txt")
	if got := app.Document().View.String(); got != "" {
		t.Errorf("document = %q", got)
	}
	if app.Document().Path != "/w/new.txt" {
		t.Errorf("path = %q", app.Document().Path)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Options{
		ConfigPath: configPath,
		Backend:    backend.NewMemory(10, 5),
		ConfigFS:   memFS{configPath: "[log]\nlevel = \"loud\"\n"},
		NoEnv:      true,
	})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Fatalf("New() error = %v, want config InitError", err)
	}
}

func TestTypingAndSave(t *testing.T) {
	fm := newMockFileManager()
	fm.files["/w/a.txt"] = ""
	app, _ := newTestApp(t, memFS{}, fm, "/w/a.txt")

	typeText(app, "hi")
	press(t, app, "enter")
	typeText(app, "yo")

	if got := app.Document().View.String(); got != "hi\nyo" {
		t.Fatalf("document = %q", got)
	}
	if !app.Document().IsModified() {
		t.Error("document not modified after typing")
	}
	if f := app.frame(); !strings.HasSuffix(f.Title, "*") {
		t.Errorf("title = %q", f.Title)
	}

	press(t, app, "ctrl+s")
	if got := fm.files["/w/a.txt"]; got != "hi\nyo" {
		t.Errorf("saved = %q", got)
	}
	if app.Document().IsModified() {
		t.Error("document modified after save")
	}
	if f := app.frame(); f.Status != "saved a.txt" {
		t.Errorf("status = %q", f.Status)
	}
}

func TestUndoRestoresCopiedLine(t *testing.T) {
	fm := newMockFileManager()
	fm.files["/w/a.txt"] = "abc"
	app, _ := newTestApp(t, memFS{}, fm, "/w/a.txt")

	press(t, app, "ctrl+alt+c")
	if got := app.Document().View.String(); got != "abc\nabc" {
		t.Fatalf("after copy = %q", got)
	}
	press(t, app, "ctrl+z")
	if got := app.Document().View.String(); got != "abc" {
		t.Errorf("after undo = %q", got)
	}
	press(t, app, "ctrl+y")
	if got := app.Document().View.String(); got != "abc\nabc" {
		t.Errorf("after redo = %q", got)
	}
}

func TestQuitWithUnsavedChanges(t *testing.T) {
	app, _ := newTestApp(t, memFS{}, newMockFileManager(), "")

	typeText(app, "x")
	press(t, app, "ctrl+q")
	if app.Quitting() {
		t.Fatal("quit with unsaved changes")
	}
	if f := app.frame(); !strings.Contains(f.Status, ErrUnsavedChanges.Error()) {
		t.Errorf("status = %q", f.Status)
	}

	// Another action in between re-arms the check.
	press(t, app, "left", "ctrl+q")
	if app.Quitting() {
		t.Fatal("quit after an intervening action")
	}
	press(t, app, "ctrl+q")
	if !app.Quitting() {
		t.Error("second quit did not exit")
	}
}

func TestCopyLineThroughKeys(t *testing.T) {
	fm := newMockFileManager()
	fm.files["/w/a.txt"] = "x = 1\n"
	app, _ := newTestApp(t, memFS{}, fm, "/w/a.txt")
	view := app.Document().View

	view.SetSelections([]cursor.Selection{cursor.NewSelection(4, 5)})
	press(t, app, "ctrl+alt+m")
	if f := app.frame(); len(f.Regions) == 0 {
		t.Fatal("no mark regions in frame")
	}

	view.SetSelections([]cursor.Selection{cursor.NewCursorSelection(0)})
	press(t, app, "ctrl+alt+c")
	if got := view.String(); got != "x = 1\nx = 1\n" {
		t.Fatalf("after copy = %q", got)
	}
	f := app.frame()
	if f.Prompt == nil || f.Prompt.Text != "1" {
		t.Fatalf("prompt = %+v", f.Prompt)
	}

	press(t, app, "backspace")
	typeText(app, "2")
	press(t, app, "enter")

	if got := view.String(); got != "x = 1\nx = 2\n" {
		t.Errorf("after answer = %q", got)
	}
	if view.ActivePrompt() != nil {
		t.Error("prompt still open")
	}
}

func TestPromptEscapeCancels(t *testing.T) {
	app, _ := newTestApp(t, memFS{}, newMockFileManager(), "")
	view := app.Document().View
	typeText(app, "a b")

	view.SetSelections([]cursor.Selection{cursor.NewSelection(2, 3)})
	press(t, app, "ctrl+alt+m")
	view.SetSelections([]cursor.Selection{cursor.NewCursorSelection(0)})
	press(t, app, "ctrl+alt+c")
	if view.ActivePrompt() == nil {
		t.Fatal("no prompt")
	}

	// Unbound in the prompt context: typed into the prompt, not the buffer.
	before := view.String()
	typeText(app, "zz")
	if view.String() != before {
		t.Errorf("prompt typing edited the buffer: %q", view.String())
	}
	press(t, app, "escape")
	if view.ActivePrompt() != nil {
		t.Error("escape did not close the prompt")
	}
}

func TestReloadConfig(t *testing.T) {
	fsys := memFS{configPath: "[prompt]\nlabel = \"One\"\n"}
	app, _ := newTestApp(t, fsys, newMockFileManager(), "")

	fsys[configPath] = "[prompt]\nlabel = \"Two\"\n"
	if err := app.ReloadConfig(); err != nil {
		t.Fatalf("ReloadConfig() = %v", err)
	}
	if got := app.Service().Options().PromptLabel; got != "Two" {
		t.Errorf("label = %q", got)
	}
	if got := app.Document().View.LastNotice(); got != "config reloaded" {
		t.Errorf("notice = %q", got)
	}

	fsys[configPath] = "[log]\nlevel = \"loud\"\n"
	if err := app.ReloadConfig(); err == nil {
		t.Fatal("invalid config reloaded")
	}
	if got := app.Config().Prompt.Label; got != "Two" {
		t.Errorf("label after bad reload = %q", got)
	}
}

func TestPluginsAndKeymapFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("config.toml", "[plugins]\ninit = [\"init.lua\"]\n[keymap]\npath = \"keys.json\"\n[watch]\nenabled = false\n")
	write("init.lua", `
local copyline = require("copyline")
copyline.bind("ctrl+d", "editor.insert", { text = "!" })
copyline.notify("plugin ready")
`)
	write("keys.json", `[
	// comment
	{ "keys": ["ctrl+e"], "command": "cursor.lineEnd" }
]`)

	app, err := New(Options{
		ConfigPath:  filepath.Join(dir, "config.toml"),
		Backend:     backend.NewMemory(40, 10),
		FileManager: newMockFileManager(),
		NoEnv:       true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if got := app.Document().View.LastNotice(); got != "plugin ready" {
		t.Errorf("notice = %q", got)
	}
	typeText(app, "ab")
	press(t, app, "home", "ctrl+d", "ctrl+e")
	if got := app.Document().View.String(); got != "!ab" {
		t.Errorf("document = %q", got)
	}
	if sels := app.Document().View.Selections(); sels[0].Head != 3 {
		t.Errorf("cursor = %d, want 3", sels[0].Head)
	}
}

func TestRunProcessesEventsUntilQuit(t *testing.T) {
	app, mem := newTestApp(t, memFS{}, newMockFileManager(), "")

	for _, r := range "ok" {
		if err := mem.PostEvent(backend.Event{Type: backend.EventKey, Key: key.Rune(r, 0)}); err != nil {
			t.Fatal(err)
		}
	}
	quit, _ := key.Parse("ctrl+q")
	force := backend.Event{Type: backend.EventKey, Key: quit}
	_ = mem.PostEvent(force)
	_ = mem.PostEvent(force)

	if err := app.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got := app.Document().View.String(); got != "ok" {
		t.Errorf("document = %q", got)
	}
	if got := mem.Line(0); !strings.HasSuffix(got, "ok") {
		t.Errorf("screen line 0 = %q", got)
	}
	if err := mem.PostEvent(force); err == nil {
		t.Error("backend still open after Run")
	}
}

func TestRunClosedBackend(t *testing.T) {
	app, mem := newTestApp(t, memFS{}, newMockFileManager(), "")
	mem.Shutdown()
	if err := app.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
}
