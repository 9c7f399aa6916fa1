package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/input/key"
)

// ErrNoAction is returned when binding a sequence to an empty action name.
var ErrNoAction = errors.New("keymap: binding has no action")

// ArgContext is the action argument Bind reads the binding context from.
const ArgContext = "context"

// Match describes how a sequence relates to the bindings.
type Match int

const (
	// MatchNone means no binding starts with the sequence.
	MatchNone Match = iota
	// MatchPrefix means the sequence is the start of a longer binding.
	MatchPrefix
	// MatchExact means a binding fires on the sequence.
	MatchExact
)

// Keymap is a set of bindings. It is safe for concurrent use.
type Keymap struct {
	mu       sync.RWMutex
	bindings []parsedBinding
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{}
}

// Add parses and adds a binding, replacing any binding with the same
// sequence and context.
func (k *Keymap) Add(b Binding) error {
	if b.Action == "" {
		return ErrNoAction
	}
	seq, err := key.ParseSequence(b.Keys)
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	b.Keys = seq.String()

	k.mu.Lock()
	defer k.mu.Unlock()
	for i, pb := range k.bindings {
		if pb.Context == b.Context && pb.Keys == b.Keys {
			k.bindings[i] = parsedBinding{Binding: b, seq: seq}
			return nil
		}
	}
	k.bindings = append(k.bindings, parsedBinding{Binding: b, seq: seq})
	return nil
}

// AddAll adds each binding, stopping at the first error.
func (k *Keymap) AddAll(bs []Binding) error {
	for _, b := range bs {
		if err := k.Add(b); err != nil {
			return err
		}
	}
	return nil
}

// Bind adds a binding built from action. A string "context" argument
// selects the binding context and is not passed to the action.
func (k *Keymap) Bind(keys string, action input.Action) error {
	b := Binding{Keys: keys, Action: action.Name}
	for name, v := range action.Args.Extra {
		if name == ArgContext {
			if s, ok := v.(string); ok {
				b.Context = Context(s)
				continue
			}
		}
		if b.Args == nil {
			b.Args = make(map[string]any)
		}
		b.Args[name] = v
	}
	return k.Add(b)
}

// Remove deletes the binding for keys in ctx. It reports whether one
// existed.
func (k *Keymap) Remove(keys string, ctx Context) bool {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return false
	}
	canon := seq.String()

	k.mu.Lock()
	defer k.mu.Unlock()
	for i, pb := range k.bindings {
		if pb.Context == ctx && pb.Keys == canon {
			k.bindings = append(k.bindings[:i], k.bindings[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup matches seq against the bindings of ctx.
func (k *Keymap) Lookup(ctx Context, seq key.Sequence) (Binding, Match) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	match := MatchNone
	for _, pb := range k.bindings {
		if pb.Context != ctx || !pb.seq.HasPrefix(seq) {
			continue
		}
		if len(pb.seq) == len(seq) {
			return pb.Binding, MatchExact
		}
		match = MatchPrefix
	}
	return Binding{}, match
}

// Bindings returns a copy of the bindings ordered by context then keys.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	out := make([]Binding, len(k.bindings))
	for i, pb := range k.bindings {
		out[i] = pb.Binding
	}
	k.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context < out[j].Context
		}
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.bindings)
}
