package interfaces

// Renderer turns compiled markdown into styled output for the preview pane
type Renderer interface {
	// Render renders markdown wrapped at the given width
	Render(markdown string, width int) string
}
