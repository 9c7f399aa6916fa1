package key

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Modifiers recognised in chords.
const (
	ModShift = tcell.ModShift
	ModCtrl  = tcell.ModCtrl
	ModAlt   = tcell.ModAlt
	ModMeta  = tcell.ModMeta
)

// Event is one normalized chord: either a named key or a rune, plus
// modifiers. Ctrl+letter is always Key=KeyRune with a lower-case rune and
// ModCtrl, regardless of how the terminal reported it.
type Event struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// Rune returns a character event.
func Rune(r rune, mod tcell.ModMask) Event {
	return Event{Key: tcell.KeyRune, Rune: r, Mod: mod}
}

// Named returns a special key event.
func Named(k tcell.Key, mod tcell.ModMask) Event {
	return Event{Key: k, Mod: mod}
}

var names = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pageup":    tcell.KeyPgUp,
	"pagedown":  tcell.KeyPgDn,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
	"f6":        tcell.KeyF6,
	"f7":        tcell.KeyF7,
	"f8":        tcell.KeyF8,
	"f9":        tcell.KeyF9,
	"f10":       tcell.KeyF10,
	"f11":       tcell.KeyF11,
	"f12":       tcell.KeyF12,
}

var aliases = map[string]string{
	"esc":       "escape",
	"return":    "enter",
	"bs":        "backspace",
	"del":       "delete",
	"page_up":   "pageup",
	"page_down": "pagedown",
}

var keyNames = func() map[tcell.Key]string {
	m := make(map[tcell.Key]string, len(names))
	for name, k := range names {
		m[k] = name
	}
	return m
}()

// Parse parses a single chord such as "ctrl+shift+up" or "alt+c".
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	var modPart, name string
	switch {
	case spec == "+":
		name = "+"
	case strings.HasSuffix(spec, "++"):
		modPart, name = strings.TrimSuffix(spec, "++"), "+"
	default:
		if i := strings.LastIndex(spec, "+"); i >= 0 {
			modPart, name = spec[:i], spec[i+1:]
		} else {
			name = spec
		}
	}

	var mod tcell.ModMask
	if modPart != "" {
		for _, p := range strings.Split(modPart, "+") {
			switch strings.ToLower(p) {
			case "ctrl", "control":
				mod |= ModCtrl
			case "alt", "option":
				mod |= ModAlt
			case "shift":
				mod |= ModShift
			case "super", "meta", "cmd":
				mod |= ModMeta
			default:
				return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
			}
		}
	}

	if name == "" {
		return Event{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	lower := strings.ToLower(name)
	if a, ok := aliases[lower]; ok {
		lower = a
	}
	if k, ok := names[lower]; ok {
		return Named(k, mod), nil
	}
	if lower == "space" {
		return Rune(' ', mod), nil
	}
	if utf8.RuneCountInString(name) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidSpec, name, spec)
	}

	r, _ := utf8.DecodeRuneInString(name)
	return normalizeRune(r, mod), nil
}

// normalizeRune lower-cases letters chorded with ctrl, alt or super,
// moving an upper-case letter's shift into the modifiers. Plain characters
// carry their shift in the rune itself.
func normalizeRune(r rune, mod tcell.ModMask) Event {
	if mod&(ModCtrl|ModAlt|ModMeta) == 0 {
		return Rune(r, mod&^ModShift)
	}
	if unicode.IsUpper(r) {
		mod |= ModShift
	}
	return Rune(unicode.ToLower(r), mod)
}

// FromTcell normalizes a terminal key event.
func FromTcell(ev *tcell.EventKey) Event {
	k, mod := ev.Key(), ev.Modifiers()
	switch {
	case k == tcell.KeyRune:
		return normalizeRune(ev.Rune(), mod)
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return Named(tcell.KeyBackspace2, mod&^ModCtrl)
	case k == tcell.KeyTab || k == tcell.KeyEnter || k == tcell.KeyEscape:
		return Named(k, mod&^ModCtrl)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return Rune(rune('a'+(k-tcell.KeyCtrlA)), mod|ModCtrl)
	case k == tcell.KeyCtrlSpace:
		return Rune(' ', mod|ModCtrl)
	default:
		return Named(k, mod)
	}
}

// IsChar reports whether the event is an unmodified printable character.
func (e Event) IsChar() bool {
	return e.Key == tcell.KeyRune && e.Mod&(ModCtrl|ModAlt|ModMeta) == 0 && unicode.IsPrint(e.Rune)
}

// String formats the event in the canonical chord spelling.
func (e Event) String() string {
	var b strings.Builder
	if e.Mod&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if e.Mod&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if e.Mod&ModShift != 0 {
		b.WriteString("shift+")
	}
	if e.Mod&ModMeta != 0 {
		b.WriteString("super+")
	}
	switch {
	case e.Key == tcell.KeyRune && e.Rune == ' ':
		b.WriteString("space")
	case e.Key == tcell.KeyRune:
		b.WriteRune(e.Rune)
	default:
		if name, ok := keyNames[e.Key]; ok {
			b.WriteString(name)
		} else {
			fmt.Fprintf(&b, "key%d", int(e.Key))
		}
	}
	return b.String()
}

// Sequence is a series of chords pressed in order.
type Sequence []Event

// ParseSequence parses space-separated chords.
func ParseSequence(spec string) (Sequence, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		ev, err := Parse(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, ev)
	}
	return seq, nil
}

// String joins the chords with spaces.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, ev := range s {
		parts[i] = ev.String()
	}
	return strings.Join(parts, " ")
}

// HasPrefix reports whether p is a prefix of s.
func (s Sequence) HasPrefix(p Sequence) bool {
	if len(p) > len(s) {
		return false
	}
	for i := range p {
		if s[i] != p[i] {
			return false
		}
	}
	return true
}

// Names returns the recognised key names, sorted.
func Names() []string {
	out := make([]string, 0, len(names)+1)
	for n := range names {
		out = append(out, n)
	}
	out = append(out, "space")
	sort.Strings(out)
	return out
}
