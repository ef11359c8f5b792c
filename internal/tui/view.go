package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"})

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "250", Dark: "238"}).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "111"})

	listItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	listSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(0).
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "111"})

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "78"})

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "241"})

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "215"})
)

const helpLine = "tab focus · n new · v paste · f file · r rename · d delete · J/K move · ctrl+y copy · ctrl+s save · ctrl+o open · ctrl+p preview · ctrl+c quit"

// resize recomputes pane dimensions from the window size. The editor column
// takes the left half when the preview is on, the full width otherwise.
func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	editorW := m.width
	if m.previewOn {
		editorW = m.width / 2
	}
	inner := editorW - 4
	if inner < 20 {
		inner = 20
	}

	contentH := m.height - 6
	if contentH < 9 {
		contentH = 9
	}
	promptH := contentH / 3
	if promptH < 3 {
		promptH = 3
	}
	attachH := contentH - promptH - listHeight()
	if attachH < 3 {
		attachH = 3
	}

	m.promptArea.SetWidth(inner)
	m.promptArea.SetHeight(promptH)
	m.contentArea.SetWidth(inner)
	m.contentArea.SetHeight(attachH)

	if m.previewOn {
		previewW := m.width - editorW - 4
		if previewW < 20 {
			previewW = 20
		}
		m.preview = viewport.New(previewW, contentH+listHeight())
		m.updatePreview()
	}
}

func listHeight() int { return 6 }

// updatePreview re-renders the settled output into the preview viewport.
func (m *appModel) updatePreview() {
	if !m.previewOn || m.preview.Width == 0 {
		return
	}
	m.preview.SetContent(m.renderer.Render(m.previewText, m.preview.Width))
}

func (m appModel) View() string {
	if m.pickerActive {
		title := "Attach file"
		if m.pickerWhy == pickImport {
			title = "Open document"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(title),
			m.picker.View(),
			helpStyle.Render("enter select · esc cancel"),
		)
	}

	editor := m.editorColumn()

	var body string
	if m.previewOn {
		body = lipgloss.JoinHorizontal(lipgloss.Top, editor, m.previewColumn())
	} else {
		body = editor
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.statusLine(),
		helpStyle.Render(helpLine),
	)
}

func (m appModel) editorColumn() string {
	promptPane := m.pane(focusPrompt, "Prompt", m.promptArea.View())
	listPane := m.pane(focusList, "Attachments", m.attachmentList())

	var contentTitle string
	var contentBody string
	if a, ok := m.sess.Selected(); ok {
		contentTitle = "Content: " + a.Name
		if m.renaming {
			contentTitle = "Rename: " + m.renameInput.View()
		}
		contentBody = m.contentArea.View()
	} else {
		contentTitle = "Content"
		contentBody = helpStyle.Render("No attachment selected")
	}
	contentPane := m.pane(focusContent, contentTitle, contentBody)

	return lipgloss.JoinVertical(lipgloss.Left, promptPane, listPane, contentPane)
}

func (m appModel) previewColumn() string {
	title := "Preview"
	if !m.sess.Stable() {
		title = "Preview " + pendingStyle.Render("(recomputing)")
	}
	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		m.preview.View(),
	))
}

func (m appModel) pane(area focusArea, title, body string) string {
	style := paneStyle
	if m.focus == area && !m.renaming {
		style = focusedPaneStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		body,
	))
}

// attachmentList renders the ordered attachment names with the cursor row
// highlighted. Long lists scroll around the cursor.
func (m appModel) attachmentList() string {
	atts := m.sess.Attachments()
	if len(atts) == 0 {
		return helpStyle.Render("No attachments. Press n to add one.")
	}

	visible := listHeight() - 1
	start := 0
	if m.listIndex >= visible {
		start = m.listIndex - visible + 1
	}

	var b strings.Builder
	for i := start; i < len(atts) && i < start+visible; i++ {
		name := atts[i].Name
		if i == m.listIndex {
			b.WriteString(listSelectedStyle.Render("> " + name))
		} else {
			b.WriteString(listItemStyle.Render(name))
		}
		if i < len(atts)-1 && i < start+visible-1 {
			b.WriteByte('\n')
		}
	}
	if start+visible < len(atts) {
		b.WriteString("\n" + helpStyle.Render(fmt.Sprintf("  … %d more", len(atts)-start-visible)))
	}
	return b.String()
}

func (m appModel) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusErrStyle.Render("✗ " + m.status)
	}
	return statusOKStyle.Render("✓ " + m.status)
}
