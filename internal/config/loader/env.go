package loader

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "COPYLINE_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "COPYLINE_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "COPYLINE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the mappings for settings whose path does not
// follow the SECTION_SETTING_NAME convention.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":               "log.level",
		prefix + "HISTORY_CAPACITY":        "history.capacity",
		prefix + "PROMPT_LABEL":            "prompt.label",
		prefix + "PROMPT_SHARED_LABEL":     "prompt.sharedLabel",
		prefix + "HIGHLIGHT_COLLATE_SCOPE": "highlight.collate.scope",
		prefix + "HIGHLIGHT_COLLATE_ICON":  "highlight.collate.icon",
		prefix + "HIGHLIGHT_COLLATE_COLOR": "highlight.collate.color",
		prefix + "HIGHLIGHT_COPY_SCOPE":    "highlight.copy.scope",
		prefix + "HIGHLIGHT_COPY_ICON":     "highlight.copy.icon",
		prefix + "HIGHLIGHT_COPY_COLOR":    "highlight.copy.color",
		prefix + "KEYMAP_PATH":             "keymap.path",
		prefix + "PLUGINS_INIT":            "plugins.init",
		prefix + "WATCH_ENABLED":           "watch.enabled",
		prefix + "WATCH_DEBOUNCE":          "watch.debounce",
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts COPYLINE_SECTION_SOME_NAME to section.someName.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	setting := parts[1]
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return parts[0] + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}

	// Comma-separated lists
	if strings.Contains(s, ",") {
		items := strings.Split(s, ",")
		out := make([]any, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	return s
}
