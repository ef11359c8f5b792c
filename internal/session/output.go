package session

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"promptbuilder-cli/internal/interfaces"
)

// OutputHandler implements the OutputHandler interface
type OutputHandler struct{}

// NewOutputHandler creates a new output handler
func NewOutputHandler() interfaces.OutputHandler {
	return &OutputHandler{}
}

// ReadClipboard fetches the current text clipboard content
func (h *OutputHandler) ReadClipboard() (string, error) {
	return clipboard.ReadAll()
}

// WriteToClipboard copies content to the system clipboard
func (h *OutputHandler) WriteToClipboard(content string) error {
	return clipboard.WriteAll(content)
}

// WriteToStdout writes content to standard output
func (h *OutputHandler) WriteToStdout(content string) error {
	_, err := fmt.Println(content)
	return err
}

// WriteToFile writes content to the specified file path
func (h *OutputHandler) WriteToFile(content string, path string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
