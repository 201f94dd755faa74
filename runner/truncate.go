package runner

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxLines = 500
	DefaultMaxBytes = 64 * 1024
)

// TruncateTail keeps the last maxLines lines or maxBytes bytes of s,
// whichever limit bites first, and notes the elision. Lint tools can
// emit one finding per line for a whole tree; the tail is where the
// summary lives.
func TruncateTail(s string, maxLines, maxBytes int) string {
	if s == "" {
		return ""
	}

	trimmed := strings.TrimSuffix(s, "\n")
	lines := strings.Split(trimmed, "\n")
	total := len(lines)
	if total <= maxLines && len(s) <= maxBytes {
		return s
	}

	keep := lines
	if total > maxLines {
		keep = lines[total-maxLines:]
	}
	out := strings.Join(keep, "\n")
	for len(out) > maxBytes {
		if i := strings.IndexByte(out, '\n'); i >= 0 && i+1 < len(out) {
			out = out[i+1:]
			continue
		}
		out = out[len(out)-maxBytes:]
		break
	}

	kept := strings.Count(out, "\n") + 1
	notice := fmt.Sprintf("[showing last %d of %d lines]\n", kept, total)
	if strings.HasSuffix(s, "\n") {
		out += "\n"
	}
	return notice + out
}
