package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fibnas/mdecho"
	"github.com/fibnas/mdecho/config"
	"github.com/fibnas/mdecho/markdown"
	"github.com/fibnas/mdecho/runner"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// previewDebounce is the quiet period after an edit before the preview
// re-renders.
const previewDebounce = 150 * time.Millisecond

type mode int

const (
	modeEdit mode = iota
	modeConfirm
	modeSaveAs
	modeQuickOpen
	modePicker
	modeTool
)

// pendingAction is the destructive action awaiting discard confirmation.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionNew
	actionOpenPicker
	actionQuickOpen
	actionQuit
)

// Model is the Bubble Tea model for the mdecho TUI.
type Model struct {
	// Editor is the left-pane textarea. Exported for test access.
	Editor textarea.Model
	// Preview is the right-pane rendered markdown view. Exported for
	// test access.
	Preview viewport.Model

	session *mdecho.Session
	cfg     config.Config
	styles  Styles
	runTool ToolFunc
	scan    ScanFunc

	mode    mode
	pending pendingAction

	saveAs   textinput.Model
	quick    quickOpen
	picker   filepicker.Model
	toolView viewport.Model
	toolName string
	spinner  spinner.Model

	toolBusy      bool
	quitAfterTool bool
	statusErr     error
	notice        string

	previewSeq int
	width      int
	height     int
	ready      bool
}

// New creates the TUI model. The tool function runs on a background
// goroutine per invocation; the scan function feeds quick-open.
func New(session *mdecho.Session, cfg config.Config, runTool ToolFunc, scan ScanFunc) Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetValue(session.Buffer())
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		Editor:  ta,
		session: session,
		cfg:     cfg,
		styles:  NewStyles(cfg.Theme),
		runTool: runTool,
		scan:    scan,
		spinner: sp,
	}
}

// Session returns the document session the model edits.
func (m Model) Session() *mdecho.Session { return m.session }

// ToolBusy reports whether a tool invocation is in flight.
func (m Model) ToolBusy() bool { return m.toolBusy }

// Err returns the error currently shown in the status bar, if any.
func (m Model) Err() error { return m.statusErr }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case previewTickMsg:
		if msg.seq == m.previewSeq {
			m = m.renderPreview()
		}
		return m, nil

	case ToolDoneMsg:
		return m.handleToolDone(msg)

	case filesScannedMsg:
		m.quick = m.quick.setFiles(msg.files, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.toolBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// updateComponents routes non-key messages (blink, mouse, picker IO) to
// the components of the active mode.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch m.mode {
	case modeEdit:
		m.Editor, cmd = m.Editor.Update(msg)
		cmds = append(cmds, cmd)
		m.Preview, cmd = m.Preview.Update(msg)
		cmds = append(cmds, cmd)
	case modePicker:
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			return m.openFile(path)
		}
	case modeSaveAs:
		m.saveAs, cmd = m.saveAs.Update(msg)
		cmds = append(cmds, cmd)
	case modeQuickOpen:
		m.quick, cmd = m.quick.update(msg)
		cmds = append(cmds, cmd)
	case modeTool:
		m.toolView, cmd = m.toolView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	statusHeight := 1
	contentHeight := max(msg.Height-statusHeight, 1)
	editorWidth := max((msg.Width-separatorWidth)/2, 10)
	previewWidth := max(msg.Width-separatorWidth-editorWidth, 10)

	m.Editor.SetWidth(editorWidth)
	m.Editor.SetHeight(contentHeight)

	if !m.ready {
		m.Preview = viewport.New(previewWidth, contentHeight)
		m.ready = true
	} else {
		m.Preview.Width = previewWidth
		m.Preview.Height = contentHeight
	}
	m.picker.Height = max(contentHeight-6, 3)
	m.toolView.Width = min(msg.Width-6, 100)
	m.toolView.Height = max(contentHeight-4, 3)

	return m.renderPreview()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeSaveAs:
		return m.handleSaveAsKey(msg)
	case modeQuickOpen:
		return m.handleQuickOpenKey(msg)
	case modePicker:
		return m.handlePickerKey(msg)
	case modeTool:
		return m.handleToolViewKey(msg)
	}
	return m.handleEditKey(msg)
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusErr = nil

	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m.requestQuit()

	case "ctrl+n":
		return m.confirmOr(actionNew)

	case "ctrl+o":
		return m.confirmOr(actionOpenPicker)

	case "ctrl+p":
		return m.confirmOr(actionQuickOpen)

	case "ctrl+s":
		return m.save()

	case "alt+s":
		return m.enterSaveAs(), textinput.Blink

	case "alt+l":
		return m.invokeTool(runner.KindLint)

	case "alt+f":
		return m.invokeTool(runner.KindFormat)

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.Preview, cmd = m.Preview.Update(msg)
		return m, cmd
	}

	// Everything else is typing: forward to the editor and debounce a
	// preview re-render when the buffer changed.
	before := m.Editor.Value()
	var cmd tea.Cmd
	m.Editor, cmd = m.Editor.Update(msg)
	if value := m.Editor.Value(); value != before {
		m.session.Edit(value)
		m.notice = ""
		return m, tea.Batch(cmd, m.schedulePreview())
	}
	return m, cmd
}

// schedulePreview bumps the debounce sequence and arms the timer; only
// the newest tick re-renders.
func (m *Model) schedulePreview() tea.Cmd {
	m.previewSeq++
	seq := m.previewSeq
	return tea.Tick(previewDebounce, func(time.Time) tea.Msg {
		return previewTickMsg{seq: seq}
	})
}

func (m Model) renderPreview() Model {
	if !m.ready {
		return m
	}
	m.Preview.SetContent(markdown.Render(m.session.Buffer(), m.Preview.Width, m.cfg.Theme))
	return m
}

// confirmOr runs the action immediately on a clean session, or asks for
// discard confirmation first.
func (m Model) confirmOr(action pendingAction) (tea.Model, tea.Cmd) {
	if m.session.Dirty() {
		m.mode = modeConfirm
		m.pending = action
		return m, nil
	}
	return m.perform(action)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.pending
		m.pending = actionNone
		m.mode = modeEdit
		return m.perform(action)
	case "n", "N", "esc":
		m.pending = actionNone
		m.mode = modeEdit
		return m, nil
	}
	return m, nil
}

func (m Model) perform(action pendingAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionNew:
		m.session.Reset()
		m.Editor.SetValue("")
		m.notice = "new document"
		return m.renderPreview(), nil

	case actionOpenPicker:
		m.picker = filepicker.New()
		m.picker.CurrentDirectory = m.cfg.WorkingDir
		m.picker.AllowedTypes = []string{".md", ".markdown", ".txt"}
		m.picker.Height = max(m.height-7, 3)
		m.mode = modePicker
		return m, m.picker.Init()

	case actionQuickOpen:
		m.quick = newQuickOpen(m.styles)
		m.mode = modeQuickOpen
		scan := m.scan
		return m, tea.Batch(textinput.Blink, func() tea.Msg {
			files, err := scan()
			return filesScannedMsg{files: files, err: err}
		})

	case actionQuit:
		if m.toolBusy {
			// Quitting now would kill the tool goroutine before its
			// temp-file cleanup runs.
			m.quitAfterTool = true
			m.notice = "waiting for tool to finish..."
			return m, nil
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	return m.confirmOr(actionQuit)
}

func (m Model) save() (tea.Model, tea.Cmd) {
	err := m.session.Save()
	switch {
	case errors.Is(err, mdecho.ErrNoPath):
		return m.enterSaveAs(), textinput.Blink
	case err != nil:
		m.statusErr = err
		return m, nil
	}
	m.notice = "saved"
	return m, nil
}

func (m Model) enterSaveAs() Model {
	ti := textinput.New()
	ti.Prompt = "save as: "
	ti.Placeholder = filepath.Join(m.cfg.WorkingDir, "untitled.md")
	ti.SetValue(m.session.Path())
	ti.Width = max(min(m.width-10, 70), 20)
	ti.Focus()
	m.saveAs = ti
	m.mode = modeSaveAs
	return m
}

func (m Model) handleSaveAsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeEdit
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.saveAs.Value())
		if path == "" {
			path = strings.TrimSpace(m.saveAs.Placeholder)
		}
		if err := m.session.SaveAs(path); err != nil {
			m.statusErr = err
			return m, nil
		}
		m.statusErr = nil
		m.notice = "saved " + displayPath(path)
		m.mode = modeEdit
		return m, nil
	}
	var cmd tea.Cmd
	m.saveAs, cmd = m.saveAs.Update(msg)
	return m, cmd
}

func (m Model) handleQuickOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeEdit
		return m, nil
	case "enter":
		if rel, ok := m.quick.selected(); ok {
			return m.openFile(filepath.Join(m.cfg.WorkingDir, filepath.FromSlash(rel)))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.quick, cmd = m.quick.update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeEdit
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m.openFile(path)
	}
	return m, cmd
}

func (m Model) handleToolViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = modeEdit
		return m, nil
	}
	var cmd tea.Cmd
	m.toolView, cmd = m.toolView.Update(msg)
	return m, cmd
}

func (m Model) openFile(path string) (tea.Model, tea.Cmd) {
	if err := m.session.Open(path); err != nil {
		m.statusErr = err
		m.mode = modeEdit
		return m, nil
	}
	m.Editor.SetValue(m.session.Buffer())
	m.statusErr = nil
	m.notice = "opened " + displayPath(path)
	m.mode = modeEdit
	return m.renderPreview(), nil
}

func (m Model) invokeTool(kind runner.Kind) (tea.Model, tea.Cmd) {
	if m.toolBusy {
		m.statusErr = mdecho.ErrToolBusy
		return m, nil
	}
	m.toolBusy = true
	m.notice = ""

	// Snapshot on the UI thread so the tool goroutine never races the
	// live session while the user keeps typing.
	snapshot := *m.session
	run := m.runTool
	invoke := func() tea.Msg {
		res, err := run(context.Background(), kind, &snapshot)
		return ToolDoneMsg{Kind: kind, Result: res, Err: err}
	}
	return m, tea.Batch(invoke, m.spinner.Tick)
}

func (m Model) handleToolDone(msg ToolDoneMsg) (tea.Model, tea.Cmd) {
	m.toolBusy = false
	if m.quitAfterTool {
		return m, tea.Quit
	}
	if msg.Err != nil {
		m.statusErr = msg.Err
		return m, nil
	}

	res := msg.Result
	if res.Reformatted != nil {
		m.session.Edit(*res.Reformatted)
		m.Editor.SetValue(*res.Reformatted)
		m.notice = "buffer reformatted"
		m = m.renderPreview()
	}

	m.toolName = msg.Kind.String()
	m.toolView.SetContent(formatToolOutput(res))
	m.toolView.GotoTop()
	m.mode = modeTool
	return m, nil
}

func formatToolOutput(res runner.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "$ %s\n", res.Command)
	fmt.Fprintf(&b, "exit status %d\n", res.ExitCode)
	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s\n", out)
	}
	if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s\n", errOut)
	}
	return b.String()
}

const separatorWidth = 3

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	contentHeight := max(m.height-1, 1)
	var content string
	switch m.mode {
	case modeConfirm:
		content = m.placeOverlay(contentHeight, m.confirmView())
	case modeSaveAs:
		content = m.placeOverlay(contentHeight, m.saveAsView())
	case modeQuickOpen:
		content = m.placeOverlay(contentHeight, m.quick.view())
	case modePicker:
		content = m.placeOverlay(contentHeight, m.pickerView())
	case modeTool:
		content = m.placeOverlay(contentHeight, m.toolViewView())
	default:
		content = m.panesView()
	}

	return content + "\n" + m.statusLine()
}

func (m Model) panesView() string {
	contentHeight := max(m.height-1, 1)
	sepLines := make([]string, contentHeight)
	for i := range sepLines {
		sepLines[i] = " │ "
	}
	sep := m.styles.Separator.Render(strings.Join(sepLines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.Editor.View(), sep, m.Preview.View())
}

func (m Model) placeOverlay(height int, box string) string {
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) confirmView() string {
	body := "Discard unsaved changes?\n\n" +
		m.styles.Accent.Render("y") + m.styles.Muted.Render(" discard   ") +
		m.styles.Accent.Render("n") + m.styles.Muted.Render(" keep editing")
	return m.styles.Overlay.Render(body)
}

func (m Model) saveAsView() string {
	hint := m.styles.Muted.Render("enter to save, esc to cancel")
	return m.styles.Overlay.Render(m.saveAs.View() + "\n" + hint)
}

func (m Model) pickerView() string {
	title := m.styles.Accent.Render("Open file") +
		m.styles.Muted.Render("  (esc to cancel)")
	return m.styles.Overlay.Render(title + "\n" + m.picker.View())
}

func (m Model) toolViewView() string {
	title := m.styles.Accent.Render(m.toolName+" output") +
		m.styles.Muted.Render("  (esc to close, arrows to scroll)")
	return m.styles.Overlay.Render(title + "\n" + m.toolView.View())
}

func (m Model) statusLine() string {
	dot := m.styles.Clean.Render("●")
	if m.session.Dirty() {
		dot = m.styles.Dirty.Render("●")
	}

	name := "Untitled"
	if m.session.Path() != "" {
		name = displayPath(m.session.Path())
	}

	right := fmt.Sprintf("L%d · %d chars", m.Editor.Line()+1, m.session.CharacterCount())

	var middle string
	switch {
	case m.statusErr != nil:
		middle = m.styles.Error.Render(m.statusErr.Error())
	case m.toolBusy:
		middle = m.spinner.View() + m.styles.Muted.Render("running tool...")
	case m.notice != "":
		middle = m.styles.Muted.Render(m.notice)
	default:
		middle = m.styles.Muted.Render("ctrl+s save · ctrl+o open · ctrl+p files · alt+l lint · alt+f format · ctrl+q quit")
	}

	nameBudget := max(m.width/3, 12)
	left := dot + " " + runewidth.Truncate(name, nameBudget, "…")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 2
	if gap < 2 {
		// Not enough room: drop the middle segment first.
		middle = ""
		gap = max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	}
	pad := strings.Repeat(" ", gap/2)
	line := left + " " + pad + middle + pad + " " + right
	return m.styles.StatusBar.Render(runewidth.Truncate(line, m.width, ""))
}

// displayPath shortens a path under $HOME to ~/... for status display.
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if rel, ok := strings.CutPrefix(path, home); ok {
		return "~" + rel
	}
	return path
}
