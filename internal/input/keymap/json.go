package keymap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrInvalidKeymap is returned for JSON that is not a keymap array.
var ErrInvalidKeymap = errors.New("keymap: invalid keymap file")

// promptContextKey is the Sublime context key marking prompt bindings.
const promptContextKey = "copyline_prompt"

// sublimeCommands maps Sublime command names to action names.
var sublimeCommands = map[string]string{
	"copy_line":    copyLine,
	"mark_copy":    markCopy,
	"mark_collate": markCollate,
	"collate":      collate,
}

var actionCommands = func() map[string]string {
	m := make(map[string]string, len(sublimeCommands))
	for cmd, action := range sublimeCommands {
		m[action] = cmd
	}
	return m
}()

// Import parses bindings from .sublime-keymap JSON. Line comments are
// allowed.
func Import(data []byte) ([]Binding, error) {
	data = stripComments(data)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidKeymap)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top level must be an array", ErrInvalidKeymap)
	}

	var (
		out []Binding
		err error
		idx int
	)
	root.ForEach(func(_, item gjson.Result) bool {
		defer func() { idx++ }()
		var keys []string
		for _, k := range item.Get("keys").Array() {
			keys = append(keys, k.String())
		}
		cmd := item.Get("command").String()
		if len(keys) == 0 || cmd == "" {
			err = fmt.Errorf("%w: entry %d needs keys and command", ErrInvalidKeymap, idx)
			return false
		}

		b := Binding{
			Keys:        strings.Join(keys, " "),
			Action:      actionFor(cmd),
			Description: item.Get("description").String(),
		}
		if args, ok := item.Get("args").Value().(map[string]any); ok && len(args) > 0 {
			b.Args = args
		}
		if item.Get(`context.#(key=="` + promptContextKey + `")`).Exists() {
			b.Context = ContextPrompt
		}
		out = append(out, b)
		return true
	})
	return out, err
}

// Export renders bindings as indented .sublime-keymap JSON.
func Export(bindings []Binding) ([]byte, error) {
	doc := `{"bindings":[]}`
	for _, b := range bindings {
		elem, err := exportBinding(b)
		if err != nil {
			return nil, fmt.Errorf("exporting %q: %w", b.Keys, err)
		}
		if doc, err = sjson.SetRaw(doc, "bindings.-1", elem); err != nil {
			return nil, err
		}
	}
	raw := gjson.Get(doc, "bindings").Raw
	return pretty.Pretty([]byte(raw)), nil
}

func exportBinding(b Binding) (string, error) {
	elem := `{}`
	var err error
	if elem, err = sjson.Set(elem, "keys", strings.Fields(b.Keys)); err != nil {
		return "", err
	}
	if elem, err = sjson.Set(elem, "command", commandFor(b.Action)); err != nil {
		return "", err
	}
	if len(b.Args) > 0 {
		if elem, err = sjson.Set(elem, "args", b.Args); err != nil {
			return "", err
		}
	}
	if b.Context == ContextPrompt {
		if elem, err = sjson.Set(elem, "context.0.key", promptContextKey); err != nil {
			return "", err
		}
	}
	if b.Description != "" {
		if elem, err = sjson.Set(elem, "description", b.Description); err != nil {
			return "", err
		}
	}
	return elem, nil
}

func actionFor(cmd string) string {
	if a, ok := sublimeCommands[cmd]; ok {
		return a
	}
	return cmd
}

func commandFor(action string) string {
	if c, ok := actionCommands[action]; ok {
		return c
	}
	return action
}

// LoadFile reads bindings from a keymap file.
func LoadFile(path string) ([]Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	bs, err := Import(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bs, nil
}

// SaveFile writes the keymap's bindings to path.
func (k *Keymap) SaveFile(path string) error {
	data, err := Export(k.Bindings())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// stripComments blanks // comments outside strings, keeping offsets.
func stripComments(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	inString, escaped := false, false
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		}
	}
	return out
}
