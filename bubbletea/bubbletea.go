// Package bubbletea provides the Bubble Tea TUI for mdecho: a dual-pane
// editor/preview layout with a status bar and overlay dialogs.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fibnas/mdecho"
	"github.com/fibnas/mdecho/runner"
)

// ToolFunc invokes an external tool of the given kind against a session
// snapshot, blocking until the process exits. The TUI runs it on a
// background goroutine and receives the outcome as a ToolDoneMsg.
type ToolFunc func(ctx context.Context, kind runner.Kind, session *mdecho.Session) (runner.Result, error)

// ScanFunc lists the markdown files available to the quick-open switcher.
type ScanFunc func() ([]string, error)

// Run creates and runs the Bubble Tea program. It blocks until the
// program exits. When the context is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ToolDoneMsg delivers a finished tool invocation back to the UI thread.
type ToolDoneMsg struct {
	Kind   runner.Kind
	Result runner.Result
	Err    error
}

// previewTickMsg fires after the debounce interval; stale sequence
// numbers are ignored so only the latest edit triggers a re-render.
type previewTickMsg struct {
	seq int
}

// filesScannedMsg delivers the quick-open file list.
type filesScannedMsg struct {
	files []string
	err   error
}
