package compiler

import (
	"strings"

	"promptbuilder-cli/internal/document"
)

// Compile maps the prompt text and the ordered attachment sequence to the
// combined markdown string: the prompt, a blank line, then one section per
// attachment consisting of a level-3 heading with the attachment name and a
// fenced code block with the content verbatim.
//
// Backticks inside attachment content are not escaped, so content holding a
// triple-backtick sequence will corrupt its fence. Known limitation; do not
// change the escaping policy here without changing the documented format.
func Compile(promptText string, attachments []document.Attachment) string {
	var b strings.Builder
	b.WriteString(promptText)
	b.WriteString("\n\n")
	for _, a := range attachments {
		b.WriteString("### ")
		b.WriteString(a.Name)
		b.WriteString("\n```\n")
		b.WriteString(a.Content)
		b.WriteString("\n```\n\n")
	}
	return b.String()
}
