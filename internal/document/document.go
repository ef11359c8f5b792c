package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Attachment is a named block of text appended to the compiled output as its
// own section. The ID is assigned at creation and never persisted or reused.
type Attachment struct {
	ID      string
	Name    string
	Content string
}

// Document aggregates the prompt text, the ordered attachment sequence, and
// the current selection. Order is significant: it defines output order and is
// user-reorderable. All mutations are synchronous; the owner is responsible
// for any cross-goroutine serialization.
type Document struct {
	promptText  string
	attachments []Attachment
	selectedID  string
}

// New creates an empty document with nothing selected.
func New() *Document {
	return &Document{}
}

// PromptText returns the current prompt text.
func (d *Document) PromptText() string {
	return d.promptText
}

// SetPromptText replaces the prompt text.
func (d *Document) SetPromptText(text string) {
	d.promptText = text
}

// Attachments returns a copy of the attachment sequence in order.
func (d *Document) Attachments() []Attachment {
	out := make([]Attachment, len(d.attachments))
	copy(out, d.attachments)
	return out
}

// Len returns the number of attachments.
func (d *Document) Len() int {
	return len(d.attachments)
}

// SelectedID returns the id of the selected attachment, or "" when none is
// selected.
func (d *Document) SelectedID() string {
	return d.selectedID
}

// Selected returns the selected attachment, if any.
func (d *Document) Selected() (Attachment, bool) {
	return d.Get(d.selectedID)
}

// Get returns the attachment with the given id.
func (d *Document) Get(id string) (Attachment, bool) {
	if i := d.indexOf(id); i >= 0 {
		return d.attachments[i], true
	}
	return Attachment{}, false
}

// Add appends a new attachment with a freshly generated id and returns it.
// When name is empty, a default of the form Untitled_<n> is synthesized from
// the current attachment count. The counter is not persistent, so names can
// collide after deletions; that matches what users of the tool expect to see
// and is left alone.
func (d *Document) Add(name, content string) Attachment {
	if name == "" {
		name = fmt.Sprintf("Untitled_%d", len(d.attachments)+1)
	}
	a := Attachment{
		ID:      uuid.NewString(),
		Name:    name,
		Content: content,
	}
	d.attachments = append(d.attachments, a)
	return a
}

// Rename replaces the attachment's name. A name that trims to empty is
// rejected and the prior name kept. Reports whether the name changed.
func (d *Document) Rename(id, newName string) bool {
	if strings.TrimSpace(newName) == "" {
		return false
	}
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.attachments[i].Name = newName
	return true
}

// SetContent replaces the attachment's content. Reports whether the id was
// found.
func (d *Document) SetContent(id, content string) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.attachments[i].Content = content
	return true
}

// Delete removes the attachment with the given id. If it was selected, the
// selection is cleared. Reports whether anything was removed.
func (d *Document) Delete(id string) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.attachments = append(d.attachments[:i], d.attachments[i+1:]...)
	if d.selectedID == id {
		d.selectedID = ""
	}
	return true
}

// Reorder removes the attachment with draggedID and reinserts it at the
// position currently occupied by targetID, before the shifted element.
// No-op when either id is missing or they are equal.
func (d *Document) Reorder(draggedID, targetID string) bool {
	if draggedID == targetID {
		return false
	}
	from := d.indexOf(draggedID)
	if from < 0 || d.indexOf(targetID) < 0 {
		return false
	}
	dragged := d.attachments[from]
	d.attachments = append(d.attachments[:from], d.attachments[from+1:]...)
	to := d.indexOf(targetID)
	d.attachments = append(d.attachments, Attachment{})
	copy(d.attachments[to+1:], d.attachments[to:])
	d.attachments[to] = dragged
	return true
}

// Select marks the attachment with the given id as selected for editing.
// Unknown ids leave the selection unchanged.
func (d *Document) Select(id string) bool {
	if d.indexOf(id) < 0 {
		return false
	}
	d.selectedID = id
	return true
}

// ClearSelection deselects any selected attachment.
func (d *Document) ClearSelection() {
	d.selectedID = ""
}

// Replace swaps this document's state for the other document's state. Used
// for wholesale import; the receiver keeps its identity so callers holding a
// reference observe the new state.
func (d *Document) Replace(other *Document) {
	d.promptText = other.promptText
	d.attachments = make([]Attachment, len(other.attachments))
	copy(d.attachments, other.attachments)
	d.selectedID = other.selectedID
}

func (d *Document) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.attachments {
		if d.attachments[i].ID == id {
			return i
		}
	}
	return -1
}
