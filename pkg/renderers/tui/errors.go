package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrDeclinedRetry is returned when the user gives up after a failed
	// schema fetch.
	ErrDeclinedRetry = errors.New("tui: form fetch abandoned")
)
