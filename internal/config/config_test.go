package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"testing"
	"time"
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

type mapEnv map[string]any

func (m mapEnv) Load() (map[string]any, error) { return m, nil }

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("", WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nope.toml", WithFS(memFS{}), WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.Capacity != 21 {
		t.Errorf("capacity = %d", cfg.History.Capacity)
	}
}

func TestLoad_TOML(t *testing.T) {
	fsys := memFS{"/c.toml": `
[log]
level = "debug"

[history]
capacity = 8

[highlight.copy]
color = "#00ff00"

[plugins]
init = ["init.lua"]

[watch]
debounce = "1s"
`}
	cfg, err := Load("/c.toml", WithFS(fsys), WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.History.Capacity != 8 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Highlight.Copy.Color != "#00ff00" || cfg.Highlight.Copy.Icon != "dot" {
		t.Errorf("copy style = %+v", cfg.Highlight.Copy)
	}
	if cfg.Prompt.Label != "Field" {
		t.Errorf("unset label should keep default, got %q", cfg.Prompt.Label)
	}
	if !reflect.DeepEqual(cfg.Plugins.Init, []string{"init.lua"}) {
		t.Errorf("plugins = %v", cfg.Plugins.Init)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
}

func TestLoad_YAML(t *testing.T) {
	fsys := memFS{"/c.yml": "prompt:\n  label: Value\n  sharedLabel: Every\nkeymap:\n  path: keys.json\n"}
	cfg, err := Load("/c.yml", WithFS(fsys), WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Prompt.Label != "Value" || cfg.Prompt.SharedLabel != "Every" {
		t.Errorf("prompt = %+v", cfg.Prompt)
	}
	if cfg.Keymap.Path != "keys.json" {
		t.Errorf("keymap = %+v", cfg.Keymap)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	fsys := memFS{"/c.toml": "[history]\ncapacity = 8\n"}
	env := mapEnv{"history": map[string]any{"capacity": int64(12)}}

	cfg, err := Load("/c.toml", WithFS(fsys), WithEnv(env))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.Capacity != 12 {
		t.Errorf("capacity = %d, want 12", cfg.History.Capacity)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		fs   memFS
		want error
	}{
		{"bad level", "/c.toml", memFS{"/c.toml": "[log]\nlevel = \"loud\"\n"}, ErrValidationFailed},
		{"bad capacity", "/c.toml", memFS{"/c.toml": "[history]\ncapacity = 1\n"}, ErrValidationFailed},
		{"bad color", "/c.toml", memFS{"/c.toml": "[highlight.collate]\ncolor = \"red\"\n"}, ErrValidationFailed},
		{"wrong shape", "/c.toml", memFS{"/c.toml": "history = \"big\"\n"}, ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, WithFS(tt.fs), WithEnv(nil))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	if _, err := Load("/c.ini", WithFS(memFS{}), WithEnv(nil)); err == nil {
		t.Error("expected error for .ini")
	}
}

func TestValidationError(t *testing.T) {
	err := Config{}.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "log.level" {
		t.Fatalf("err = %v", err)
	}
}

func TestPluginPaths(t *testing.T) {
	cfg := Default()
	cfg.Plugins.Init = []string{"init.lua", "/abs/x.lua"}

	got := cfg.PluginPaths("/etc/copyline/config.toml")
	want := []string{filepath.Join("/etc/copyline", "init.lua"), "/abs/x.lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PluginPaths = %v, want %v", got, want)
	}
}

func TestKeymapFile(t *testing.T) {
	cfg := Default()
	if got := cfg.KeymapFile("/etc/copyline/config.toml"); got != "" {
		t.Errorf("unset keymap = %q", got)
	}
	cfg.Keymap.Path = "keys.json"
	if got := cfg.KeymapFile("/etc/copyline/config.toml"); got != filepath.Join("/etc/copyline", "keys.json") {
		t.Errorf("KeymapFile = %q", got)
	}
	if got := cfg.KeymapFile(""); got != "keys.json" {
		t.Errorf("without config path = %q", got)
	}
}

func TestLoad_DotenvBetweenFileAndEnv(t *testing.T) {
	fsys := memFS{
		"/c/config.toml": "[prompt]\nlabel = \"File\"\nsharedLabel = \"FileShared\"\n",
		"/c/.env":        "COPYLINE_PROMPT_LABEL=Dotenv\nCOPYLINE_HISTORY_CAPACITY=7\n",
	}
	env := mapEnv{"history": map[string]any{"capacity": int64(9)}}

	cfg, err := Load("/c/config.toml", WithFS(fsys), WithEnv(env))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Prompt.Label != "Dotenv" || cfg.Prompt.SharedLabel != "FileShared" {
		t.Errorf("prompt = %+v", cfg.Prompt)
	}
	if cfg.History.Capacity != 9 {
		t.Errorf("capacity = %d, want the environment's 9", cfg.History.Capacity)
	}

	cfg, err = Load("/c/config.toml", WithFS(fsys), WithEnv(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt.Label != "File" {
		t.Errorf("label without env = %q", cfg.Prompt.Label)
	}
}
