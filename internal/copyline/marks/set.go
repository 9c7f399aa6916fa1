package marks

import (
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/host"
)

// Set names.
const (
	KeyCollate = "collate"
	KeyCopy    = "copyline"
)

// Set is an ordered, named mark set backed by a host region set.
// Duplicates and overlaps are kept as added.
type Set struct {
	live host.LiveRegions
}

func newSet(view host.View, key string, style host.Style) *Set {
	return &Set{live: host.NewLiveRegions(view, key, style)}
}

// Name returns the set name.
func (s *Set) Name() string {
	return s.live.Key()
}

// Regions returns a snapshot of the marks in insertion order.
func (s *Set) Regions() []buffer.Range {
	return s.live.Snapshot()
}

// Reversed returns a snapshot of the marks, most recently added first.
// The stored order is left untouched.
func (s *Set) Reversed() []buffer.Range {
	regions := s.live.Snapshot()
	for i, j := 0, len(regions)-1; i < j; i, j = i+1, j-1 {
		regions[i], regions[j] = regions[j], regions[i]
	}
	return regions
}

// Len returns the number of marks.
func (s *Set) Len() int {
	return s.live.Len()
}

// Add appends ranges to the set.
func (s *Set) Add(ranges []buffer.Range) {
	s.live.Append(ranges)
}

// Clear removes every mark and its highlight. It reports whether the set
// held anything.
func (s *Set) Clear() bool {
	if s.live.Len() == 0 {
		return false
	}
	s.live.Erase()
	return true
}

func (s *Set) restyle(style host.Style) {
	s.live = s.live.WithStyle(style)
	if regions := s.live.Snapshot(); len(regions) > 0 {
		s.live.Erase()
		s.live.Append(regions)
	}
}
