package interfaces

// OutputHandler manages clipboard access and output destinations
type OutputHandler interface {
	// ReadClipboard fetches the current text clipboard content
	ReadClipboard() (string, error)

	// WriteToClipboard copies content to the system clipboard
	WriteToClipboard(content string) error

	// WriteToStdout writes content to standard output
	WriteToStdout(content string) error

	// WriteToFile writes content to the specified file path
	WriteToFile(content string, path string) error
}
