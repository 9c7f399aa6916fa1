package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingView indicates the action needs a view but none is focused.
	ErrMissingView = errors.New("execution context: view is required")

	// ErrMissingService indicates the copy-line service is not wired.
	ErrMissingService = errors.New("execution context: copyline service is required")
)
