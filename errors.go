// Package mdecho holds the domain types for the mdecho markdown editor:
// the document session, the color theme, and the error kinds shared by
// the runner and TUI packages.
package mdecho

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrNoPath indicates Save was called on a session without a path.
	ErrNoPath = errors.New("no file path set: use save-as")

	// ErrUnsavedChanges indicates a tool was asked to run against the open
	// file while the session has unsaved edits.
	ErrUnsavedChanges = errors.New("unsaved changes: save the file first")

	// ErrToolBusy indicates a tool invocation was requested while another
	// is still running.
	ErrToolBusy = errors.New("a tool is already running")

	// ErrNotText indicates an opened file is not valid UTF-8 text.
	ErrNotText = errors.New("not valid UTF-8 text")
)

// IOError reports a failed read or write with the path involved.
type IOError struct {
	Op   string // "read", "write", "stat"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// SpawnError reports an external command that could not be started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
