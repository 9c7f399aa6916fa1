package plugin

import "errors"

var (
	// ErrModuleExists is returned when registering a module name twice.
	ErrModuleExists = errors.New("plugin: module already registered")

	// ErrNoView is returned by commands when no view has focus.
	ErrNoView = errors.New("plugin: no focused view")
)
