package session

import "errors"

var (
	// ErrNotIdle is returned when Start is called twice.
	ErrNotIdle = errors.New("session: already started")

	// ErrNotAwaiting is returned when a session without an open prompt
	// is asked to accept an answer.
	ErrNotAwaiting = errors.New("session: no prompt open")

	// ErrFieldLost is returned when a field no longer fits the buffer.
	ErrFieldLost = errors.New("session: field outside buffer")
)
