package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const quickOpenRows = 10

// quickOpen is the fuzzy file switcher overlay: a filter input over the
// working directory's markdown files.
type quickOpen struct {
	input   textinput.Model
	styles  Styles
	files   []string
	matches []string
	cursor  int
	scanErr error
	loaded  bool
}

func newQuickOpen(styles Styles) quickOpen {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "filter files"
	ti.Focus()
	return quickOpen{input: ti, styles: styles}
}

func (q quickOpen) setFiles(files []string, err error) quickOpen {
	q.files = files
	q.scanErr = err
	q.loaded = true
	return q.filter()
}

func (q quickOpen) update(msg tea.Msg) (quickOpen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "ctrl+k":
			if q.cursor > 0 {
				q.cursor--
			}
			return q, nil
		case "down", "ctrl+j":
			if q.cursor < len(q.matches)-1 {
				q.cursor++
			}
			return q, nil
		}
	}

	before := q.input.Value()
	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	if q.input.Value() != before {
		q = q.filter()
	}
	return q, cmd
}

func (q quickOpen) filter() quickOpen {
	query := strings.TrimSpace(q.input.Value())
	if query == "" {
		q.matches = q.files
	} else {
		found := fuzzy.Find(query, q.files)
		q.matches = make([]string, len(found))
		for i, match := range found {
			q.matches[i] = match.Str
		}
	}
	q.cursor = 0
	return q
}

// selected returns the highlighted relative path, if any.
func (q quickOpen) selected() (string, bool) {
	if q.cursor >= 0 && q.cursor < len(q.matches) {
		return q.matches[q.cursor], true
	}
	return "", false
}

func (q quickOpen) view() string {
	var b strings.Builder
	b.WriteString(q.input.View())
	b.WriteString("\n")

	switch {
	case q.scanErr != nil:
		b.WriteString(q.styles.Error.Render("scan failed: " + q.scanErr.Error()))
	case !q.loaded:
		b.WriteString(q.styles.Muted.Render("scanning..."))
	case len(q.matches) == 0:
		b.WriteString(q.styles.Muted.Render("no matching files"))
	default:
		start := 0
		if q.cursor >= quickOpenRows {
			start = q.cursor - quickOpenRows + 1
		}
		end := min(start+quickOpenRows, len(q.matches))
		for i := start; i < end; i++ {
			if i == q.cursor {
				b.WriteString(q.styles.Selected.Render("▸ " + q.matches[i]))
			} else {
				b.WriteString("  " + q.matches[i])
			}
			b.WriteString("\n")
		}
		if len(q.matches) > end-start {
			b.WriteString(q.styles.Muted.Render(fmt.Sprintf("%d of %d files", end-start, len(q.matches))))
		}
	}
	return q.styles.Overlay.Render(strings.TrimRight(b.String(), "\n"))
}
