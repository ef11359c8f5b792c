// Package tui is the interactive editing surface. It owns no document state:
// every command is forwarded to the session, and the view re-reads the
// session on each render.
package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"promptbuilder-cli/internal/interfaces"
	"promptbuilder-cli/internal/render"
	"promptbuilder-cli/internal/session"
)

type focusArea int

const (
	focusPrompt focusArea = iota
	focusList
	focusContent
)

type pickerPurpose int

const (
	pickAttach pickerPurpose = iota
	pickImport
)

type statusExpiredMsg struct{ seq int }
type previewRefreshMsg struct{}

type appModel struct {
	sess     *session.Session
	cfg      *interfaces.Config
	renderer interfaces.Renderer

	width  int
	height int

	focus     focusArea
	listIndex int

	promptArea  textarea.Model
	contentArea textarea.Model

	renaming    bool
	renameInput textinput.Model

	pickerActive bool
	pickerWhy    pickerPurpose
	picker       filepicker.Model

	previewOn   bool
	preview     viewport.Model
	previewText string

	status    string
	statusErr bool
	statusSeq int
}

func newAppModel(sess *session.Session, cfg *interfaces.Config) appModel {
	prompt := textarea.New()
	prompt.Placeholder = "Type your prompt..."
	prompt.CharLimit = 0
	prompt.SetValue(sess.PromptText())
	prompt.Focus()

	content := textarea.New()
	content.Placeholder = "Attachment content..."
	content.CharLimit = 0

	rename := textinput.New()
	rename.CharLimit = 0

	m := appModel{
		sess:        sess,
		cfg:         cfg,
		renderer:    render.NewThemed(cfg.Theme),
		focus:       focusPrompt,
		promptArea:  prompt,
		contentArea: content,
		renameInput: rename,
		previewOn:   true,
	}
	m.syncContentArea()
	return m
}

func (m appModel) Init() tea.Cmd {
	return textarea.Blink
}

// refreshAfterDebounce schedules a preview refresh just after the quiet
// period, so the settled output shows up without polling.
func (m *appModel) refreshAfterDebounce() tea.Cmd {
	return tea.Tick(m.sess.DebounceInterval()+50*time.Millisecond, func(time.Time) tea.Msg {
		return previewRefreshMsg{}
	})
}

// flash shows a transient status line: ~2s for confirmations, ~3s for
// errors.
func (m *appModel) flash(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	d := 2 * time.Second
	if isErr {
		d = 3 * time.Second
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case previewRefreshMsg:
		if m.sess.Stable() {
			out, _ := m.sess.Output()
			m.previewText = out
			m.updatePreview()
			return m, nil
		}
		// Another edit restarted the quiet period; try again after it.
		return m, m.refreshAfterDebounce()
	}

	if m.pickerActive {
		return m.updatePicker(msg)
	}
	if m.renaming {
		return m.updateRename(msg)
	}
	return m.updateMain(msg)
}

func (m appModel) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			return m, nil

		case "ctrl+p":
			m.previewOn = !m.previewOn
			m.resize()
			return m, nil

		case "ctrl+y":
			return m.copyOutput()

		case "ctrl+s":
			path, err := m.sess.Export("")
			if err != nil {
				return m, m.flash(fmt.Sprintf("Export failed: %v", err), true)
			}
			return m, m.flash("Saved "+path, false)

		case "ctrl+o":
			return m.openPicker(pickImport)
		}

		if m.focus == focusList {
			return m.updateList(key)
		}
	}

	return m.updateEditors(msg)
}

// copyOutput refuses while a recompute is pending so the clipboard never
// receives a stale fragment mid-edit.
func (m appModel) copyOutput() (tea.Model, tea.Cmd) {
	if err := m.sess.CopyOutput(); err != nil {
		return m, m.flash(err.Error(), true)
	}
	return m, m.flash("Output copied to clipboard", false)
}

func (m appModel) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	atts := m.sess.Attachments()

	switch key.String() {
	case "up", "k":
		if m.listIndex > 0 {
			m.listIndex--
			m.selectAtIndex()
		}
		return m, nil
	case "down", "j":
		if m.listIndex < len(atts)-1 {
			m.listIndex++
			m.selectAtIndex()
		}
		return m, nil

	case "K", "shift+up":
		// Move the selected attachment one slot up.
		if m.listIndex > 0 {
			m.sess.Reorder(atts[m.listIndex].ID, atts[m.listIndex-1].ID)
			m.listIndex--
			return m, m.refreshAfterDebounce()
		}
		return m, nil
	case "J", "shift+down":
		// Moving down is expressed as the neighbor below moving up.
		if m.listIndex < len(atts)-1 {
			m.sess.Reorder(atts[m.listIndex+1].ID, atts[m.listIndex].ID)
			m.listIndex++
			return m, m.refreshAfterDebounce()
		}
		return m, nil

	case "n":
		m.sess.AddEmpty()
		m.listIndex = len(m.sess.Attachments()) - 1
		m.syncContentArea()
		return m, m.refreshAfterDebounce()

	case "v":
		if _, err := m.sess.AddFromClipboard(); err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.listIndex = len(m.sess.Attachments()) - 1
		m.syncContentArea()
		return m, tea.Batch(m.flash("Attachment added from clipboard", false), m.refreshAfterDebounce())

	case "f":
		return m.openPicker(pickAttach)

	case "r":
		if len(atts) == 0 {
			return m, nil
		}
		m.renaming = true
		m.renameInput.SetValue(atts[m.listIndex].Name)
		m.renameInput.CursorEnd()
		m.renameInput.Focus()
		return m, textinput.Blink

	case "d":
		if len(atts) == 0 {
			return m, nil
		}
		m.sess.Delete(atts[m.listIndex].ID)
		if m.listIndex >= len(m.sess.Attachments()) {
			m.listIndex = len(m.sess.Attachments()) - 1
		}
		if m.listIndex < 0 {
			m.listIndex = 0
		}
		m.selectAtIndex()
		return m, m.refreshAfterDebounce()

	case "enter":
		if len(atts) > 0 {
			m.focus = focusContent
			m.applyFocus()
		}
		return m, nil
	}

	return m, nil
}

func (m appModel) updateRename(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			// Commit. A name that trims to empty is rejected and the prior
			// name kept.
			atts := m.sess.Attachments()
			if m.listIndex < len(atts) {
				if !m.sess.Rename(atts[m.listIndex].ID, m.renameInput.Value()) {
					m.renaming = false
					m.renameInput.Blur()
					return m, m.flash("Name unchanged: empty names are not allowed", true)
				}
			}
			m.renaming = false
			m.renameInput.Blur()
			return m, m.refreshAfterDebounce()
		case "esc":
			m.renaming = false
			m.renameInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m appModel) openPicker(why pickerPurpose) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.Height = pickerHeight(m.height)
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	m.picker = fp
	m.pickerActive = true
	m.pickerWhy = why
	return m, m.picker.Init()
}

func (m appModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m.pickerActive = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.pickerActive = false
		switch m.pickerWhy {
		case pickAttach:
			if _, err := m.sess.AddFromFile(path); err != nil {
				return m, m.flash(err.Error(), true)
			}
			m.listIndex = len(m.sess.Attachments()) - 1
			m.syncContentArea()
			return m, tea.Batch(m.flash("Attached "+path, false), m.refreshAfterDebounce())
		case pickImport:
			if err := m.sess.Import(path); err != nil {
				return m, m.flash(err.Error(), true)
			}
			m.listIndex = 0
			m.promptArea.SetValue(m.sess.PromptText())
			m.syncContentArea()
			return m, tea.Batch(m.flash("Loaded "+path, false), m.refreshAfterDebounce())
		}
	}

	return m, cmd
}

func (m appModel) updateEditors(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusPrompt:
		before := m.promptArea.Value()
		m.promptArea, cmd = m.promptArea.Update(msg)
		if after := m.promptArea.Value(); after != before {
			m.sess.SetPromptText(after)
			return m, tea.Batch(cmd, m.refreshAfterDebounce())
		}

	case focusContent:
		if id := m.sess.SelectedID(); id != "" {
			before := m.contentArea.Value()
			m.contentArea, cmd = m.contentArea.Update(msg)
			if after := m.contentArea.Value(); after != before {
				m.sess.SetContent(id, after)
				return m, tea.Batch(cmd, m.refreshAfterDebounce())
			}
		}

	case focusList:
		// Keys are handled in updateList; nothing editable has focus.
	}

	return m, cmd
}

func (m *appModel) cycleFocus(dir int) {
	order := []focusArea{focusPrompt, focusList, focusContent}
	for i, f := range order {
		if f == m.focus {
			m.focus = order[(i+dir+len(order))%len(order)]
			break
		}
	}
	if m.focus == focusContent && m.sess.SelectedID() == "" {
		// Nothing to edit; skip over the content pane.
		if dir >= 0 {
			m.focus = focusPrompt
		} else {
			m.focus = focusList
		}
	}
	m.applyFocus()
}

func (m *appModel) applyFocus() {
	m.promptArea.Blur()
	m.contentArea.Blur()
	switch m.focus {
	case focusPrompt:
		m.promptArea.Focus()
	case focusContent:
		m.contentArea.Focus()
	}
}

// selectAtIndex keeps the session selection aligned with the list cursor and
// loads the selected content into the editor.
func (m *appModel) selectAtIndex() {
	atts := m.sess.Attachments()
	if len(atts) == 0 {
		m.sess.ClearSelection()
		m.contentArea.SetValue("")
		return
	}
	if m.listIndex >= len(atts) {
		m.listIndex = len(atts) - 1
	}
	m.sess.Select(atts[m.listIndex].ID)
	m.syncContentArea()
}

func (m *appModel) syncContentArea() {
	if a, ok := m.sess.Selected(); ok {
		m.contentArea.SetValue(a.Content)
		return
	}
	atts := m.sess.Attachments()
	if m.listIndex < len(atts) {
		m.sess.Select(atts[m.listIndex].ID)
		if a, ok := m.sess.Selected(); ok {
			m.contentArea.SetValue(a.Content)
		}
		return
	}
	m.contentArea.SetValue("")
}

func pickerHeight(screenH int) int {
	h := screenH - 10
	if h < 8 {
		h = 8
	}
	if h > 18 {
		h = 18
	}
	return h
}

// Run starts the editor over the given session and blocks until quit.
func Run(sess *session.Session, cfg *interfaces.Config) error {
	p := tea.NewProgram(newAppModel(sess, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
