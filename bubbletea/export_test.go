package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// PreviewTickFor returns the debounce tick matching the model's current
// sequence, letting tests force a preview render without sleeping.
func PreviewTickFor(m Model) tea.Msg { return previewTickMsg{seq: m.previewSeq} }

// StalePreviewTick returns a tick for an outdated sequence, which the
// model must ignore.
func StalePreviewTick(m Model) tea.Msg { return previewTickMsg{seq: m.previewSeq - 1} }

// FilesScanned builds the message that delivers quick-open scan results.
func FilesScanned(files []string, err error) tea.Msg {
	return filesScannedMsg{files: files, err: err}
}

// ModeName exposes the active mode for assertions.
func ModeName(m Model) string {
	switch m.mode {
	case modeConfirm:
		return "confirm"
	case modeSaveAs:
		return "saveas"
	case modeQuickOpen:
		return "quickopen"
	case modePicker:
		return "picker"
	case modeTool:
		return "tool"
	default:
		return "edit"
	}
}

// Notice exposes the transient status message.
func Notice(m Model) string { return m.notice }
