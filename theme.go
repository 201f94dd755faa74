package mdecho

import "strings"

// Theme defines the editor color scheme. Colors are "#rrggbb" hex
// strings; an empty string means the terminal default for that role, so
// the app blends into the user's terminal scheme out of the box.
type Theme struct {
	Base       string // "dark" or "light" preset
	Background string
	Text       string
	Accent     string // headings, links, selection
}

// DefaultTheme returns the dark preset with terminal-default colors.
func DefaultTheme() Theme {
	return Theme{Base: "dark"}
}

// Dark reports whether the theme uses the dark preset. Anything other
// than an explicit "light" is dark.
func (t Theme) Dark() bool {
	return !strings.EqualFold(strings.TrimSpace(t.Base), "light")
}

// NormalizeHex validates a color value and returns it in "#rrggbb" form.
// Accepts an optional leading '#' and upper- or lowercase digits. Returns
// ok=false for anything else, including the empty string.
func NormalizeHex(value string) (string, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 {
		return "", false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return "", false
		}
	}
	return "#" + strings.ToLower(hex), true
}
