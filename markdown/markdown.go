// Package markdown renders CommonMark source to ANSI-styled terminal
// output for the preview pane, using goldmark for parsing and lipgloss
// for styling.
package markdown

import "github.com/fibnas/mdecho"

// Render parses markdown source and returns ANSI-styled terminal output.
// It is pure: the same source, width, and theme always produce the same
// output, and malformed input renders best-effort rather than failing.
// Paragraphs, headings, and list items are word-wrapped to width; code
// blocks are rendered unwrapped behind a gutter.
func Render(source string, width int, theme mdecho.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
