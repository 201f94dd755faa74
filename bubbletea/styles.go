package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fibnas/mdecho"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Accent    lipgloss.Style
	Dirty     lipgloss.Style
	Clean     lipgloss.Style
	StatusBar lipgloss.Style
	Separator lipgloss.Style
	Overlay   lipgloss.Style
	Selected  lipgloss.Style
}

// NewStyles creates Styles from a Theme. Unset theme colors fall back to
// ANSI indices so the UI follows the terminal scheme.
func NewStyles(t mdecho.Theme) Styles {
	accent := themeColor(t.Accent, 5)
	text := lipgloss.NewStyle().Foreground(themeColor(t.Text, -1))

	statusBar := text.Faint(true)
	if t.Background != "" {
		statusBar = statusBar.Background(lipgloss.Color(t.Background))
	}

	return Styles{
		Text:      text,
		Muted:     lipgloss.NewStyle().Foreground(themeColor("", 8)).Faint(true),
		Error:     lipgloss.NewStyle().Foreground(themeColor("", 1)),
		Accent:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Dirty:     lipgloss.NewStyle().Foreground(themeColor("", 3)),
		Clean:     lipgloss.NewStyle().Foreground(themeColor("", 2)),
		StatusBar: statusBar,
		Separator: lipgloss.NewStyle().Foreground(themeColor("", 8)),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

// themeColor resolves a hex theme value with an ANSI fallback; a negative
// fallback means no color.
func themeColor(hex string, fallback int) lipgloss.TerminalColor {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	if fallback < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(fallback))
}
