package runner

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from tool
// output so lint/format results render cleanly inside the TUI. Tabs and
// newlines survive; CRLF is normalized to LF; a lone CR overwrites the
// line from column zero, matching terminal behavior for progress output.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	// Drop control bytes except \t, \n, and \r (resolved below).
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' || r > 0x1F {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if !strings.ContainsRune(s, '\r') {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.ContainsRune(line, '\r') {
			lines[i] = overwriteCR(line)
		}
	}
	return strings.Join(lines, "\n")
}

// overwriteCR resolves carriage returns within one line: each \r resets
// the write position to column zero and later characters overwrite.
// Trailing characters from longer earlier content remain, as on a real
// terminal.
func overwriteCR(line string) string {
	segments := strings.Split(line, "\r")
	buf := []rune(segments[0])
	for _, seg := range segments[1:] {
		for i, r := range []rune(seg) {
			if i < len(buf) {
				buf[i] = r
			} else {
				buf = append(buf, r)
			}
		}
	}
	return string(buf)
}
