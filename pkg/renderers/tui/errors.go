package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrIncomplete is returned when the session ends with invalid fields
	// that could not be prompted, for example because they are disabled.
	ErrIncomplete = errors.New("tui: settings still invalid")
)
