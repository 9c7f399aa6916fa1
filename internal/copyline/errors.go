package copyline

import "errors"

var (
	// ErrNoSelection is returned when a view reports no selections.
	ErrNoSelection = errors.New("copyline: view has no selection")

	// ErrNoAnchor is returned when an expanded template has no line start.
	ErrNoAnchor = errors.New("copyline: template expansion is empty")
)
