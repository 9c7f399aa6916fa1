package host

import "github.com/dshills/copyline/internal/engine/buffer"

// LiveRegions is a named region set tracked by the host across edits.
// Its positions are only read through Snapshot; the returned ranges are
// plain offsets that go stale on the next edit.
type LiveRegions struct {
	view  View
	key   string
	style Style
}

// NewLiveRegions binds a region key on view.
func NewLiveRegions(view View, key string, style Style) LiveRegions {
	return LiveRegions{view: view, key: key, style: style}
}

// Key returns the region key.
func (l LiveRegions) Key() string {
	return l.key
}

// Snapshot returns the current positions in insertion order.
func (l LiveRegions) Snapshot() []buffer.Range {
	return l.view.Regions(l.key)
}

// Len returns the number of regions.
func (l LiveRegions) Len() int {
	return len(l.view.Regions(l.key))
}

// Append adds ranges after the existing ones and re-highlights the set.
func (l LiveRegions) Append(ranges []buffer.Range) {
	if len(ranges) == 0 {
		return
	}
	all := append(l.view.Regions(l.key), ranges...)
	l.view.AddRegions(l.key, all, l.style)
}

// Erase removes the set and its highlight.
func (l LiveRegions) Erase() {
	l.view.EraseRegions(l.key)
}

// WithStyle returns a copy drawing with style.
func (l LiveRegions) WithStyle(style Style) LiveRegions {
	l.style = style
	return l
}
