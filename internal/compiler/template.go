package compiler

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"promptbuilder-cli/internal/document"
)

// TemplateData is the context handed to a custom output template.
type TemplateData struct {
	Prompt      string
	Attachments []document.Attachment
}

// CompileWithTemplate renders the combined output through a user-supplied Go
// template instead of the built-in format. Templates get the sprig helper
// set. Callers only reach here when an output template is explicitly
// configured, and should fall back to Compile on error.
func CompileWithTemplate(path, promptText string, attachments []document.Attachment) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read output template %s: %w", path, err)
	}

	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse output template %s: %w", path, err)
	}

	var b strings.Builder
	data := TemplateData{Prompt: promptText, Attachments: attachments}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to execute output template %s: %w", path, err)
	}
	return b.String(), nil
}
