// Package serializer converts a document to and from its durable XML form.
// The format carries the prompt text and the ordered (name, content) pairs;
// attachment ids are never part of it and are regenerated on load.
package serializer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"promptbuilder-cli/internal/document"
)

// MaxInputSize is the largest input the deserializer will attempt to parse.
// The check is boundary inclusive: exactly MaxInputSize bytes is accepted.
const MaxInputSize = 1 << 20 // 1 MiB

// DefaultFileName is the conventional export file name.
const DefaultFileName = "prompt_builder.xml"

// ErrTooLarge is returned before parsing when the input exceeds MaxInputSize.
var ErrTooLarge = errors.New("input exceeds maximum size")

// ParseError reports input that is not parseable as the document format.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("not a valid prompt document: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

type xmlAttachment struct {
	Name    *string `xml:"name"`
	Content *string `xml:"content"`
}

type xmlDocument struct {
	XMLName     xml.Name        `xml:"promptDocument"`
	Prompt      *string         `xml:"prompt"`
	Attachments []xmlAttachment `xml:"attachments>attachment"`
}

// Marshal serializes the document. The output is self-contained and round
// trips through Unmarshal up to attachment ids and whitespace in empty
// optional sections.
func Marshal(doc *document.Document) ([]byte, error) {
	prompt := doc.PromptText()
	out := xmlDocument{Prompt: &prompt}
	for _, a := range doc.Attachments() {
		name := a.Name
		content := a.Content
		out.Attachments = append(out.Attachments, xmlAttachment{
			Name:    &name,
			Content: &content,
		})
	}

	body, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Unmarshal parses data into a fresh document. Missing prompt or attachment
// sections yield empty values; an attachment record without a name gets
// "Untitled", without content gets empty text. Every loaded attachment
// receives a fresh id. Oversized input fails with ErrTooLarge before any
// parsing; unparseable input fails with *ParseError. The returned document
// is new; on error nothing is returned, so the caller's document is
// untouched.
func Unmarshal(data []byte) (*document.Document, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), MaxInputSize)
	}

	var in xmlDocument
	if err := xml.Unmarshal(data, &in); err != nil {
		return nil, &ParseError{Cause: err}
	}

	doc := document.New()
	if in.Prompt != nil {
		doc.SetPromptText(*in.Prompt)
	}
	for _, rec := range in.Attachments {
		name := "Untitled"
		if rec.Name != nil && strings.TrimSpace(*rec.Name) != "" {
			name = *rec.Name
		}
		content := ""
		if rec.Content != nil {
			content = *rec.Content
		}
		doc.Add(name, content)
	}
	return doc, nil
}
