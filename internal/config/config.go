package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/dshills/copyline/internal/config/loader"
	"github.com/dshills/copyline/internal/logging"
)

// Config is the full set of copyline settings.
type Config struct {
	Log       LogConfig       `toml:"log" yaml:"log"`
	History   HistoryConfig   `toml:"history" yaml:"history"`
	Prompt    PromptConfig    `toml:"prompt" yaml:"prompt"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Keymap    KeymapConfig    `toml:"keymap" yaml:"keymap"`
	Plugins   PluginsConfig   `toml:"plugins" yaml:"plugins"`
	Watch     WatchConfig     `toml:"watch" yaml:"watch"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// HistoryConfig sizes the answer history ring.
type HistoryConfig struct {
	// Capacity counts the empty sentinel entry.
	Capacity int `toml:"capacity" yaml:"capacity"`
}

// PromptConfig holds the field prompt labels.
type PromptConfig struct {
	Label       string `toml:"label" yaml:"label"`
	SharedLabel string `toml:"sharedLabel" yaml:"sharedLabel"`
}

// Style is how one kind of mark is drawn.
type Style struct {
	Scope string `toml:"scope" yaml:"scope"`
	Icon  string `toml:"icon" yaml:"icon"`
	Color string `toml:"color" yaml:"color"`
}

// HighlightConfig holds the mark styles.
type HighlightConfig struct {
	Collate Style `toml:"collate" yaml:"collate"`
	Copy    Style `toml:"copy" yaml:"copy"`
}

// KeymapConfig points at a JSON keymap file merged over the defaults.
type KeymapConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// PluginsConfig lists Lua scripts run at startup.
type PluginsConfig struct {
	Init []string `toml:"init" yaml:"init"`
}

// WatchConfig controls live reload of the config file.
type WatchConfig struct {
	Enabled  bool          `toml:"enabled" yaml:"enabled"`
	Debounce time.Duration `toml:"debounce" yaml:"debounce"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		History: HistoryConfig{Capacity: 21},
		Prompt:  PromptConfig{Label: "Field", SharedLabel: "All fields"},
		Highlight: HighlightConfig{
			Collate: Style{Scope: "selection", Icon: "bookmark"},
			Copy:    Style{Scope: "selection", Icon: "dot"},
		},
		Watch: WatchConfig{Enabled: true, Debounce: 200 * time.Millisecond},
	}
}

// DefaultPath returns the user config file location, or "" when the
// platform has no config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "copyline", "config.toml")
}

type options struct {
	fs  loader.FileSystem
	env loader.Loader
}

// Option configures Load.
type Option func(*options)

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithEnv replaces the environment layer. A nil loader disables it.
func WithEnv(l loader.Loader) Option {
	return func(o *options) { o.env = l }
}

// DotenvName is the file next to the config file holding COPYLINE_*
// overrides.
const DotenvName = ".env"

// Load builds a Config from defaults, the file at path (skipped when path
// is empty or missing), the .env file beside it and the environment. The
// .env layer is skipped together with the environment.
func Load(path string, opts ...Option) (Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := map[string]any{}
	if path != "" {
		fl, err := loader.ForPath(o.fs, expandHome(path))
		if err != nil {
			return Config{}, err
		}
		m, err := fl.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}
	if o.env != nil && path != "" {
		dotenv := filepath.Join(filepath.Dir(expandHome(path)), DotenvName)
		m, err := loader.NewDotenvLoader(o.fs, dotenv, loader.DefaultEnvPrefix).Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}
	if o.env != nil {
		m, err := o.env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("environment: %w", err)
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode lays the merged map over Default. The map is re-encoded as YAML
// so both file formats and the environment share one set of field tags.
func decode(m map[string]any) (Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "want debug, info, warn or error"}
	}
	if c.History.Capacity < 2 {
		return &ValidationError{Path: "history.capacity", Value: c.History.Capacity, Message: "must be at least 2"}
	}
	if strings.TrimSpace(c.Prompt.Label) == "" {
		return &ValidationError{Path: "prompt.label", Value: c.Prompt.Label, Message: "must not be empty"}
	}
	if strings.TrimSpace(c.Prompt.SharedLabel) == "" {
		return &ValidationError{Path: "prompt.sharedLabel", Value: c.Prompt.SharedLabel, Message: "must not be empty"}
	}
	for name, st := range map[string]Style{"collate": c.Highlight.Collate, "copy": c.Highlight.Copy} {
		if st.Color == "" {
			continue
		}
		if _, err := colorful.Hex(st.Color); err != nil {
			return &ValidationError{Path: "highlight." + name + ".color", Value: st.Color, Message: "want #rrggbb"}
		}
	}
	if c.Watch.Debounce < 0 {
		return &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce, Message: "must not be negative"}
	}
	return nil
}

// PluginPaths returns the init scripts resolved against the config file's
// directory.
func (c Config) PluginPaths(configPath string) []string {
	out := make([]string, 0, len(c.Plugins.Init))
	for _, p := range c.Plugins.Init {
		out = append(out, resolve(configPath, p))
	}
	return out
}

// KeymapFile returns the keymap path resolved against the config file's
// directory, or "" when none is configured.
func (c Config) KeymapFile(configPath string) string {
	if c.Keymap.Path == "" {
		return ""
	}
	return resolve(configPath, c.Keymap.Path)
}

func resolve(configPath, p string) string {
	p = expandHome(p)
	if !filepath.IsAbs(p) && configPath != "" {
		p = filepath.Join(filepath.Dir(expandHome(configPath)), p)
	}
	return p
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
