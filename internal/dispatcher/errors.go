package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler was found for an action.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrActionCancelled indicates the action was cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrInvalidAction indicates the action has no name.
	ErrInvalidAction = errors.New("dispatcher: invalid action")
)
