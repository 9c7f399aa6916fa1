package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[history]
capacity = 30

[highlight.collate]
icon = "circle"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, ok := GetByPath(config, "history.capacity"); !ok || val != int64(30) {
		t.Errorf("history.capacity = %v (%T), want 30", val, val)
	}
	if val, ok := GetByPath(config, "highlight.collate.icon"); !ok || val != "circle" {
		t.Errorf("highlight.collate.icon = %v, want circle", val)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/none.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[history\ncapacity = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("Line should be reported")
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
prompt:
  label: Value
plugins:
  init:
    - a.lua
    - b.lua
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, _ := GetByPath(config, "prompt.label"); val != "Value" {
		t.Errorf("prompt.label = %v", val)
	}
	val, _ := GetByPath(config, "plugins.init")
	list, ok := val.([]any)
	if !ok || len(list) != 2 || list[1] != "b.lua" {
		t.Errorf("plugins.init = %#v", val)
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("a: [1, 2\nb: c\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "<reader>" {
		t.Errorf("Path = %q", perr.Path)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"c.toml", "*loader.TOMLLoader", false},
		{"c.yaml", "*loader.YAMLLoader", false},
		{"C.YML", "*loader.YAMLLoader", false},
		{"c.json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(nil, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got := typeName(l)
			if got != tt.want {
				t.Errorf("loader = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(l FileLoader) string {
	switch l.(type) {
	case *TOMLLoader:
		return "*loader.TOMLLoader"
	case *YAMLLoader:
		return "*loader.YAMLLoader"
	}
	return "?"
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"prompt":  map[string]any{"label": "Field", "sharedLabel": "All"},
		"history": map[string]any{"capacity": int64(21)},
	}
	src := map[string]any{
		"prompt":  map[string]any{"label": "Value"},
		"history": "flat",
	}

	out := DeepMerge(dst, src)
	if v, _ := GetByPath(out, "prompt.label"); v != "Value" {
		t.Errorf("prompt.label = %v", v)
	}
	if v, _ := GetByPath(out, "prompt.sharedLabel"); v != "All" {
		t.Errorf("prompt.sharedLabel = %v", v)
	}
	if out["history"] != "flat" {
		t.Errorf("history = %v", out["history"])
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a", Line: 2, Column: 3, Message: "m"}, "parse error in a at line 2, column 3: m"},
		{ParseError{Path: "a", Line: 2, Message: "m"}, "parse error in a at line 2: m"},
		{ParseError{Path: "a", Message: "m"}, "parse error in a: m"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
