// Package render adapts the glamour markdown renderer for the preview pane.
// Markdown parsing and styling are the library's job; nothing here
// reimplements them.
package render

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	rendererMu sync.Mutex
	// Cache renderers by style + wrap width. Constructing a renderer with
	// WithAutoStyle can trigger terminal background queries that block on
	// some terminals, so a fixed style is resolved once and reused.
	renderers = map[string]*glamour.TermRenderer{}
)

// Markdown renders md to styled ANSI wrapped at width. On any renderer
// failure the raw markdown comes back unchanged, so the preview degrades
// instead of disappearing.
func Markdown(md string, width int, theme string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := resolveStyle(theme)
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Themed is a Renderer fixed to one theme. The theme comes from config at
// startup; width varies per render as panes resize.
type Themed struct {
	Theme string
}

func NewThemed(theme string) *Themed {
	return &Themed{Theme: theme}
}

func (t *Themed) Render(markdown string, width int) string {
	return Markdown(markdown, width, t.Theme)
}

func resolveStyle(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// "auto" or unset: follow Lip Gloss's background detection.
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
