// Package apperr defines the error kinds shared across todobuddy components.
package apperr

import "errors"

var (
	// ErrNotFound reports a missing predecessor note or a tag without taxonomy entries.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyProcessed reports that today's note already carries the autogenerated marker.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrUnreadableContent reports a note whose bytes are not valid text.
	ErrUnreadableContent = errors.New("unreadable content")
)
