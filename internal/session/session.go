// Package session coordinates the document, the debounced output pipeline,
// and the external surfaces (clipboard, files). It is the single component
// command handlers talk to; the UI layer never touches the document or the
// serializer directly.
package session

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"promptbuilder-cli/internal/compiler"
	"promptbuilder-cli/internal/debounce"
	"promptbuilder-cli/internal/document"
	"promptbuilder-cli/internal/interfaces"
	"promptbuilder-cli/internal/serializer"
)

// Session owns a document for the lifetime of the program run. It is
// explicitly constructed and passed around; there is no package-level
// instance. Mutations schedule a debounced recompile of the combined output;
// while one is pending the output is unstable and copy is refused.
type Session struct {
	mu  sync.Mutex
	doc *document.Document
	cfg *interfaces.Config

	deb      *debounce.Debouncer
	output   interfaces.OutputHandler
	ingestor interfaces.Ingestor

	compiled    string
	templateErr error
}

// New creates a session over an empty document using the wall clock.
func New(cfg *interfaces.Config) *Session {
	return NewWithClock(cfg, clock.New())
}

// NewWithClock creates a session on an explicit clock so the debounce
// behavior can be driven by a mock in tests.
func NewWithClock(cfg *interfaces.Config, clk clock.Clock) *Session {
	s := &Session{
		doc:      document.New(),
		cfg:      cfg,
		output:   NewOutputHandler(),
		ingestor: NewIngestor(),
	}
	interval := time.Duration(cfg.DebounceMs) * time.Millisecond
	s.deb = debounce.NewWithClock(clk, interval, s.recompile)
	s.recompileNow()
	return s
}

// SetOutputHandler swaps the clipboard/stdout/file surface. Tests use this
// to observe deliveries without a real clipboard.
func (s *Session) SetOutputHandler(h interfaces.OutputHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = h
}

// Document state accessors. Each returns a snapshot; holding on to the
// returned values across mutations is safe.

func (s *Session) PromptText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.PromptText()
}

func (s *Session) Attachments() []document.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Attachments()
}

func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.SelectedID()
}

func (s *Session) Selected() (document.Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Selected()
}

// Mutations. Each applies synchronously and schedules a debounced recompile
// when it can change the compiled output.

func (s *Session) SetPromptText(text string) {
	s.mu.Lock()
	s.doc.SetPromptText(text)
	s.mu.Unlock()
	s.deb.Trigger()
}

// AddEmpty appends a blank attachment with a synthesized name and selects it.
func (s *Session) AddEmpty() document.Attachment {
	s.mu.Lock()
	a := s.doc.Add("", "")
	s.doc.Select(a.ID)
	s.mu.Unlock()
	s.deb.Trigger()
	return a
}

// AddFromClipboard appends an attachment holding the current clipboard text
// and selects it. On clipboard failure nothing is added.
func (s *Session) AddFromClipboard() (document.Attachment, error) {
	text, err := s.output.ReadClipboard()
	if err != nil {
		return document.Attachment{}, NewClipboardError("read", err)
	}

	s.mu.Lock()
	a := s.doc.Add("", text)
	s.doc.Select(a.ID)
	s.mu.Unlock()
	s.deb.Trigger()
	return a, nil
}

// AddFromFile ingests the file at path as a new attachment named after the
// file, applying the size cap and any configured extension restriction, and
// selects it.
func (s *Session) AddFromFile(path string) (document.Attachment, error) {
	name, content, err := s.ingestor.ReadFile(path, s.ingestLimits())
	if err != nil {
		return document.Attachment{}, err
	}

	s.mu.Lock()
	a := s.doc.Add(name, content)
	s.doc.Select(a.ID)
	s.mu.Unlock()
	s.deb.Trigger()
	return a, nil
}

// Rename renames an attachment. A trimmed-empty name is rejected and the
// prior name kept.
func (s *Session) Rename(id, newName string) bool {
	s.mu.Lock()
	ok := s.doc.Rename(id, newName)
	s.mu.Unlock()
	if ok {
		s.deb.Trigger()
	}
	return ok
}

func (s *Session) SetContent(id, content string) bool {
	s.mu.Lock()
	ok := s.doc.SetContent(id, content)
	s.mu.Unlock()
	if ok {
		s.deb.Trigger()
	}
	return ok
}

func (s *Session) Delete(id string) bool {
	s.mu.Lock()
	ok := s.doc.Delete(id)
	s.mu.Unlock()
	if ok {
		s.deb.Trigger()
	}
	return ok
}

func (s *Session) Reorder(draggedID, targetID string) bool {
	s.mu.Lock()
	ok := s.doc.Reorder(draggedID, targetID)
	s.mu.Unlock()
	if ok {
		s.deb.Trigger()
	}
	return ok
}

// Select changes the editing selection. Selection is not part of the
// compiled output, so no recompile is scheduled.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Select(id)
}

// ClearSelection drops the editing selection without touching the output.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.ClearSelection()
}

// Output returns the last settled compiled output and whether it is stable.
// While a recompile is pending or running the string is the previous settled
// value and stable is false. Stability is read before the string: once no
// recompile is pending, the recompile has already published its result, so a
// true flag never accompanies a stale string.
func (s *Session) Output() (string, bool) {
	stable := !s.deb.Pending()
	s.mu.Lock()
	compiled := s.compiled
	s.mu.Unlock()
	return compiled, stable
}

// Stable reports whether no recompile is pending.
func (s *Session) Stable() bool {
	return !s.deb.Pending()
}

// Settle forces any pending recompile to run now. Non-interactive flows use
// it; the editor lets the quiet period elapse instead.
func (s *Session) Settle() {
	s.deb.Flush()
}

// CopyOutput places the settled compiled output on the clipboard. It is
// refused while a recompile is pending, so a copy never captures a stale
// fragment mid-edit.
func (s *Session) CopyOutput() error {
	s.mu.Lock()
	if s.deb.Pending() {
		s.mu.Unlock()
		return NewOutputUnstableError()
	}
	compiled := s.compiled
	out := s.output
	s.mu.Unlock()

	if err := out.WriteToClipboard(compiled); err != nil {
		return NewClipboardError("write", err)
	}
	return nil
}

// Delivery reports how an output delivery went. Confirmation is a
// user-facing success line, empty when the compiled output itself went to
// stdout. Fallback carries the clipboard failure when the output had to fall
// back to stdout.
type Delivery struct {
	Confirmation string
	Fallback     error
}

// Deliver sends the settled compiled output to the given target: clipboard,
// stdout, or file:<path>. Clipboard failures fall back to stdout rather than
// losing the output. The session itself prints nothing; the caller decides
// how to surface the returned report.
func (s *Session) Deliver(target string) (Delivery, error) {
	s.Settle()
	compiled, _ := s.Output()

	switch {
	case target == "clipboard":
		if err := s.output.WriteToClipboard(compiled); err != nil {
			if werr := s.output.WriteToStdout(compiled); werr != nil {
				return Delivery{}, NewOutputError(target, werr)
			}
			return Delivery{Fallback: NewClipboardError("write", err)}, nil
		}
		return Delivery{Confirmation: "Output copied to clipboard"}, nil

	case target == "stdout":
		if err := s.output.WriteToStdout(compiled); err != nil {
			return Delivery{}, NewOutputError(target, err)
		}
		return Delivery{}, nil

	case strings.HasPrefix(target, "file:"):
		filePath := strings.TrimPrefix(target, "file:")
		if err := s.output.WriteToFile(compiled, filePath); err != nil {
			return Delivery{}, NewOutputError(target, err)
		}
		return Delivery{Confirmation: fmt.Sprintf("Output written to %s", filePath)}, nil

	default:
		return Delivery{}, NewValidationError("target", target, "unsupported output target")
	}
}

// Export serializes the document to path. An empty path uses the configured
// export file.
func (s *Session) Export(path string) (string, error) {
	if path == "" {
		path = s.cfg.ExportFile
	}

	s.mu.Lock()
	data, err := serializer.Marshal(s.doc)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Import loads the document at path and replaces the current document
// wholesale. On any failure the current document is left untouched. The
// 1 MiB cap applies before parsing.
func (s *Session) Import(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return NewValidationError("document_path", path, "file is not readable")
	}
	if info.Size() > MaxAttachmentBytes {
		return NewFileTooLargeError(path, info.Size(), MaxAttachmentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return NewValidationError("document_path", path, "file is not readable")
	}

	loaded, err := serializer.Unmarshal(data)
	if err != nil {
		return NewParseError(path, err)
	}

	s.mu.Lock()
	s.doc.Replace(loaded)
	s.mu.Unlock()
	s.deb.Trigger()
	return nil
}

// TemplateWarning reports the last output-template failure, if the most
// recent recompile had to fall back to the built-in format.
func (s *Session) TemplateWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templateErr
}

// DebounceInterval returns the configured quiet period.
func (s *Session) DebounceInterval() time.Duration {
	return s.deb.Interval()
}

func (s *Session) ingestLimits() interfaces.IngestLimits {
	return interfaces.IngestLimits{
		MaxBytes:          MaxAttachmentBytes,
		AllowedExtensions: s.cfg.AllowedExtensions,
	}
}

// recompile is the debounce callback. It compiles the latest document state;
// intermediate states skipped by the quiet period are never observed.
func (s *Session) recompile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recompileLocked()
}

func (s *Session) recompileNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recompileLocked()
}

func (s *Session) recompileLocked() {
	prompt := s.doc.PromptText()
	atts := s.doc.Attachments()

	s.templateErr = nil
	if s.cfg.OutputTemplate != "" {
		out, err := compiler.CompileWithTemplate(s.cfg.OutputTemplate, prompt, atts)
		if err == nil {
			s.compiled = out
			return
		}
		s.templateErr = err
	}
	s.compiled = compiler.Compile(prompt, atts)
}
