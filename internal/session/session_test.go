package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"promptbuilder-cli/internal/interfaces"
)

func testConfig() *interfaces.Config {
	return &interfaces.Config{
		DebounceMs: 500,
		ExportFile: "prompt_builder.xml",
		Target:     "clipboard",
		Theme:      "auto",
	}
}

// fakeOutput records deliveries and can simulate a broken clipboard.
type fakeOutput struct {
	clip       string
	clipErr    error
	stdout     []string
	files      map[string]string
	copyCalled int
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{files: map[string]string{}}
}

func (f *fakeOutput) ReadClipboard() (string, error) {
	if f.clipErr != nil {
		return "", f.clipErr
	}
	return f.clip, nil
}

func (f *fakeOutput) WriteToClipboard(content string) error {
	f.copyCalled++
	if f.clipErr != nil {
		return f.clipErr
	}
	f.clip = content
	return nil
}

func (f *fakeOutput) WriteToStdout(content string) error {
	f.stdout = append(f.stdout, content)
	return nil
}

func (f *fakeOutput) WriteToFile(content string, path string) error {
	f.files[path] = content
	return nil
}

func newTestSession(t *testing.T) (*Session, *clock.Mock, *fakeOutput) {
	t.Helper()
	mock := clock.NewMock()
	s := NewWithClock(testConfig(), mock)
	out := newFakeOutput()
	s.SetOutputHandler(out)
	return s, mock, out
}

func TestSession_InitialOutput(t *testing.T) {
	s, _, _ := newTestSession(t)

	got, stable := s.Output()
	if !stable {
		t.Error("fresh session should be stable")
	}
	if got != "\n\n" {
		t.Errorf("initial output = %q, want %q", got, "\n\n")
	}
}

func TestSession_DebouncedRecompute(t *testing.T) {
	s, mock, _ := newTestSession(t)

	// Edits at t, t+100, t+200; debounce 500 means one recompute at t+700
	// reflecting only the final state.
	s.SetPromptText("v1")
	mock.Add(100 * time.Millisecond)
	s.SetPromptText("v2")
	mock.Add(100 * time.Millisecond)
	s.SetPromptText("v3")

	if _, stable := s.Output(); stable {
		t.Fatal("output should be unstable while edits are pending")
	}
	if got, _ := s.Output(); got != "\n\n" {
		t.Errorf("pending output = %q, want previous settled value", got)
	}

	mock.Add(499 * time.Millisecond)
	if _, stable := s.Output(); stable {
		t.Fatal("output settled before the quiet period elapsed")
	}

	mock.Add(1 * time.Millisecond)
	got, stable := s.Output()
	if !stable {
		t.Fatal("output still unstable after the quiet period")
	}
	if got != "v3\n\n" {
		t.Errorf("settled output = %q, want %q (latest state only)", got, "v3\n\n")
	}
}

func TestSession_CopyRefusedWhileUnstable(t *testing.T) {
	s, mock, out := newTestSession(t)

	s.SetPromptText("draft")
	err := s.CopyOutput()
	if !errors.Is(err, ErrOutputUnstable) {
		t.Fatalf("CopyOutput() while pending = %v, want ErrOutputUnstable", err)
	}
	if out.copyCalled != 0 {
		t.Fatal("clipboard was written while output was unstable")
	}

	mock.Add(500 * time.Millisecond)
	if err := s.CopyOutput(); err != nil {
		t.Fatalf("CopyOutput() after settling failed: %v", err)
	}
	if out.clip != "draft\n\n" {
		t.Errorf("clipboard = %q, want the settled compiled string", out.clip)
	}
}

func TestSession_CopyClipboardFailure(t *testing.T) {
	s, _, out := newTestSession(t)
	out.clipErr = errors.New("no display")

	err := s.CopyOutput()
	if !errors.Is(err, ErrClipboardUnavailable) {
		t.Errorf("CopyOutput() = %v, want ErrClipboardUnavailable", err)
	}
}

func TestSession_AddFromClipboard(t *testing.T) {
	s, mock, out := newTestSession(t)
	out.clip = "pasted text"

	a, err := s.AddFromClipboard()
	if err != nil {
		t.Fatalf("AddFromClipboard() failed: %v", err)
	}
	if a.Content != "pasted text" {
		t.Errorf("content = %q, want clipboard text", a.Content)
	}
	if a.Name != "Untitled_1" {
		t.Errorf("name = %q, want synthesized default", a.Name)
	}
	if s.SelectedID() != a.ID {
		t.Error("new attachment not selected")
	}

	mock.Add(500 * time.Millisecond)
	got, _ := s.Output()
	if !strings.Contains(got, "### Untitled_1\n```\npasted text\n```") {
		t.Errorf("output missing pasted section: %q", got)
	}
}

func TestSession_AddFromClipboard_Failure(t *testing.T) {
	s, _, out := newTestSession(t)
	out.clipErr = errors.New("denied")

	_, err := s.AddFromClipboard()
	if !errors.Is(err, ErrClipboardUnavailable) {
		t.Fatalf("AddFromClipboard() = %v, want ErrClipboardUnavailable", err)
	}
	if len(s.Attachments()) != 0 {
		t.Error("attachment added despite clipboard failure")
	}
}

func TestSession_AddFromFile(t *testing.T) {
	s, _, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("file body"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := s.AddFromFile(path)
	if err != nil {
		t.Fatalf("AddFromFile() failed: %v", err)
	}
	if a.Name != "notes.txt" {
		t.Errorf("name = %q, want the file name", a.Name)
	}
	if a.Content != "file body" {
		t.Errorf("content = %q, want file content", a.Content)
	}
}

func TestSession_AddFromFile_TooLarge(t *testing.T) {
	s, _, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, make([]byte, MaxAttachmentBytes+1), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.AddFromFile(path)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("AddFromFile() = %v, want ErrFileTooLarge", err)
	}
	if !strings.Contains(err.Error(), "big.txt") {
		t.Errorf("error does not name the file: %v", err)
	}
	if len(s.Attachments()) != 0 {
		t.Error("oversized file was attached")
	}
}

func TestSession_AddFromFile_ExactLimit(t *testing.T) {
	s, _, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "exact.txt")
	if err := os.WriteFile(path, make([]byte, MaxAttachmentBytes), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.AddFromFile(path); err != nil {
		t.Errorf("AddFromFile() at the boundary failed: %v", err)
	}
}

func TestSession_AddFromFile_ExtensionRestriction(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedExtensions = []string{".txt", ".md"}
	s := NewWithClock(cfg, clock.NewMock())
	s.SetOutputHandler(newFakeOutput())

	dir := t.TempDir()
	bad := filepath.Join(dir, "binary.png")
	os.WriteFile(bad, []byte("x"), 0644)

	_, err := s.AddFromFile(bad)
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("AddFromFile(.png) = %v, want ErrUnsupportedFileType", err)
	}

	good := filepath.Join(dir, "ok.md")
	os.WriteFile(good, []byte("x"), 0644)
	if _, err := s.AddFromFile(good); err != nil {
		t.Errorf("AddFromFile(.md) failed: %v", err)
	}
}

func TestSession_ExportImportRoundTrip(t *testing.T) {
	s, mock, _ := newTestSession(t)

	s.SetPromptText("prompt here")
	a := s.AddEmpty()
	s.Rename(a.ID, "section")
	s.SetContent(a.ID, "body")
	mock.Add(500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "doc.xml")
	written, err := s.Export(path)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if written != path {
		t.Errorf("Export() path = %q, want %q", written, path)
	}

	other, mock2, _ := newTestSession(t)
	other.SetPromptText("stale")
	other.AddEmpty()

	if err := other.Import(path); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if other.PromptText() != "prompt here" {
		t.Errorf("imported prompt = %q", other.PromptText())
	}
	atts := other.Attachments()
	if len(atts) != 1 || atts[0].Name != "section" || atts[0].Content != "body" {
		t.Errorf("imported attachments = %+v", atts)
	}
	if other.SelectedID() != "" {
		t.Error("import kept a selection pointing at replaced attachments")
	}

	mock2.Add(500 * time.Millisecond)
	got, _ := other.Output()
	if !strings.HasPrefix(got, "prompt here\n\n") {
		t.Errorf("output after import = %q", got)
	}
}

func TestSession_ImportFailureLeavesDocument(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.SetPromptText("keep me")
	s.AddEmpty()

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.xml")
		os.WriteFile(path, []byte("not a document"), 0644)

		err := s.Import(path)
		if !errors.Is(err, ErrParseFailed) {
			t.Fatalf("Import() = %v, want ErrParseFailed", err)
		}
	})

	t.Run("oversized", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.xml")
		os.WriteFile(path, make([]byte, MaxAttachmentBytes+1), 0644)

		err := s.Import(path)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("Import() = %v, want ErrFileTooLarge", err)
		}
	})

	if s.PromptText() != "keep me" || len(s.Attachments()) != 1 {
		t.Error("failed import modified the document")
	}
}

func TestSession_Deliver(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		s, _, out := newTestSession(t)
		s.SetPromptText("hello")

		// Deliver settles pending edits itself.
		d, err := s.Deliver("stdout")
		if err != nil {
			t.Fatalf("Deliver(stdout) failed: %v", err)
		}
		if len(out.stdout) != 1 || out.stdout[0] != "hello\n\n" {
			t.Errorf("stdout deliveries = %q", out.stdout)
		}
		if d.Confirmation != "" {
			t.Errorf("stdout delivery confirmation = %q, want empty", d.Confirmation)
		}
	})

	t.Run("file", func(t *testing.T) {
		s, _, out := newTestSession(t)
		s.SetPromptText("hello")

		d, err := s.Deliver("file:/tmp/x.md")
		if err != nil {
			t.Fatalf("Deliver(file:) failed: %v", err)
		}
		if out.files["/tmp/x.md"] != "hello\n\n" {
			t.Errorf("file delivery = %q", out.files["/tmp/x.md"])
		}
		if d.Confirmation == "" {
			t.Error("file delivery returned no confirmation")
		}
	})

	t.Run("clipboard", func(t *testing.T) {
		s, _, out := newTestSession(t)
		s.SetPromptText("hello")

		d, err := s.Deliver("clipboard")
		if err != nil {
			t.Fatalf("Deliver(clipboard) failed: %v", err)
		}
		if out.clip != "hello\n\n" {
			t.Errorf("clipboard delivery = %q", out.clip)
		}
		if d.Confirmation == "" || d.Fallback != nil {
			t.Errorf("clipboard delivery report = %+v", d)
		}
	})

	t.Run("clipboard falls back to stdout", func(t *testing.T) {
		s, _, out := newTestSession(t)
		out.clipErr = errors.New("no clipboard")
		s.SetPromptText("hello")

		d, err := s.Deliver("clipboard")
		if err != nil {
			t.Fatalf("Deliver(clipboard) with broken clipboard = %v, want stdout fallback", err)
		}
		if len(out.stdout) != 1 {
			t.Error("fallback did not write to stdout")
		}
		if !errors.Is(d.Fallback, ErrClipboardUnavailable) {
			t.Errorf("fallback report = %v, want ErrClipboardUnavailable", d.Fallback)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		s, _, _ := newTestSession(t)
		_, err := s.Deliver("printer")
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Deliver(printer) = %v, want ErrValidationFailed", err)
		}
	})
}

func TestSession_RenameWhitespaceKeepsOutput(t *testing.T) {
	s, mock, _ := newTestSession(t)

	a := s.AddEmpty()
	s.SetContent(a.ID, "c")
	mock.Add(500 * time.Millisecond)

	if s.Rename(a.ID, "   ") {
		t.Fatal("whitespace-only rename accepted")
	}
	if !s.Stable() {
		t.Error("rejected rename scheduled a recompute")
	}
	got, _ := s.Output()
	if !strings.Contains(got, "### Untitled_1\n") {
		t.Errorf("output lost the prior name: %q", got)
	}
}

func TestSession_SelectDoesNotRecompute(t *testing.T) {
	s, mock, _ := newTestSession(t)
	a := s.AddEmpty()
	mock.Add(500 * time.Millisecond)

	s.Select(a.ID)
	if !s.Stable() {
		t.Error("selection change scheduled a recompute")
	}
}
