package keymap

import (
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/input/key"
)

// Status is the outcome of feeding one key event.
type Status int

const (
	// StatusUnbound means the buffered keys matched nothing and were dropped.
	StatusUnbound Status = iota
	// StatusPending means more chords are needed.
	StatusPending
	// StatusMatched means a binding fired.
	StatusMatched
)

// Resolver turns key events into actions, buffering partial sequences.
// It is not safe for concurrent use.
type Resolver struct {
	km      *Keymap
	pending key.Sequence
}

// NewResolver creates a resolver over km.
func NewResolver(km *Keymap) *Resolver {
	return &Resolver{km: km}
}

// Feed adds ev to the pending sequence and looks it up in ctx. On
// StatusUnbound the returned sequence holds the keys that were dropped.
func (r *Resolver) Feed(ctx Context, ev key.Event) (input.Action, Status, key.Sequence) {
	seq := append(append(key.Sequence(nil), r.pending...), ev)
	b, m := r.km.Lookup(ctx, seq)
	switch m {
	case MatchExact:
		r.pending = nil
		return b.ToAction(), StatusMatched, seq
	case MatchPrefix:
		r.pending = seq
		return input.Action{}, StatusPending, seq
	}

	r.pending = nil
	// A dead prefix followed by a fresh chord: retry the chord alone.
	if len(seq) > 1 {
		if b, m := r.km.Lookup(ctx, key.Sequence{ev}); m == MatchExact {
			return b.ToAction(), StatusMatched, key.Sequence{ev}
		}
	}
	return input.Action{}, StatusUnbound, seq
}

// Pending returns the buffered chords.
func (r *Resolver) Pending() key.Sequence {
	return append(key.Sequence(nil), r.pending...)
}

// Reset drops buffered chords.
func (r *Resolver) Reset() {
	r.pending = nil
}
