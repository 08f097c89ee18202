package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoCollections is returned when the document has nothing to edit.
	ErrNoCollections = errors.New("tui: document has no collections")
)
