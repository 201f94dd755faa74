package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fibnas/mdecho"
	bt "github.com/fibnas/mdecho/bubbletea"
	"github.com/fibnas/mdecho/config"
	"github.com/fibnas/mdecho/runner"
	"github.com/stretchr/testify/require"
)

// nopTool is a tool function that completes immediately with an empty
// result.
func nopTool(_ context.Context, kind runner.Kind, _ *mdecho.Session) (runner.Result, error) {
	return runner.Result{Kind: kind}, nil
}

// nopScan reports no files.
func nopScan() ([]string, error) { return nil, nil }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		WorkingDir: t.TempDir(),
		Theme:      mdecho.DefaultTheme(),
		Tools: config.Tools{
			Lint:   []string{"true"},
			Format: []string{"true"},
		},
	}
}

// initModel creates a model over the session and initializes layout with
// a window size.
func initModel(t *testing.T, session *mdecho.Session, tool bt.ToolFunc, scan bt.ScanFunc) bt.Model {
	t.Helper()
	if tool == nil {
		tool = nopTool
	}
	if scan == nil {
		scan = nopScan
	}
	m := bt.New(session, testConfig(t), tool, scan)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeString feeds text to the editor one key message at a time.
func typeString(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	for _, r := range s {
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// keyMsg builds a KeyMsg from a key name like "ctrl+s" or "esc".
func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "alt+s":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}, Alt: true}
	case "alt+l":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}, Alt: true}
	case "alt+f":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}, Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
