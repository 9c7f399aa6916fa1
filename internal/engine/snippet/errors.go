package snippet

import "errors"

// Errors returned by Parse and Expand.
var (
	ErrUnterminated = errors.New("snippet: unterminated placeholder")
	ErrBadIndex     = errors.New("snippet: invalid placeholder index")
)
