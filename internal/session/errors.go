package session

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for different categories of failures
var (
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrFileTooLarge         = errors.New("file too large")
	ErrParseFailed          = errors.New("parse error")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrOutputUnstable       = errors.New("output unstable")
	ErrOutputFailed         = errors.New("output error")
	ErrValidationFailed     = errors.New("validation error")
)

// BuilderError represents a structured error with actionable guidance
type BuilderError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
}

func (e *BuilderError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s: %s\n\nSuggestion: %s", e.Type, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *BuilderError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Type
}

// Is lets callers match on the error kind with errors.Is.
func (e *BuilderError) Is(target error) bool {
	return errors.Is(e.Type, target)
}

// Error constructors with actionable guidance

func NewClipboardError(op string, cause error) *BuilderError {
	guidance := "Ensure you're running in an environment with clipboard support " +
		"(a graphical session, or a terminal with OSC 52). On Linux, installing " +
		"xclip or xsel usually resolves this."
	if op == "write" {
		guidance += " You can also deliver the output with --target stdout instead."
	}

	return &BuilderError{
		Type:     ErrClipboardUnavailable,
		Message:  fmt.Sprintf("clipboard %s failed", op),
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewFileTooLargeError(path string, size, limit int64) *BuilderError {
	return &BuilderError{
		Type:    ErrFileTooLarge,
		Message: fmt.Sprintf("%s is %d bytes (limit %d)", path, size, limit),
		Guidance: "Attachments are capped at 1 MiB. Trim the file down, or split it " +
			"into smaller pieces and attach those.",
	}
}

func NewParseError(path string, cause error) *BuilderError {
	return &BuilderError{
		Type:    ErrParseFailed,
		Message: fmt.Sprintf("could not load %s", path),
		Guidance: "The file is not a prompt document. Import expects the XML file " +
			"produced by export (prompt_builder.xml). The current document was left untouched.",
		Cause: cause,
	}
}

func NewUnsupportedFileTypeError(path string, allowed []string) *BuilderError {
	return &BuilderError{
		Type:    ErrUnsupportedFileType,
		Message: fmt.Sprintf("%s is not a recognized text file", path),
		Guidance: fmt.Sprintf("Only these extensions are accepted: %s. "+
			"Clear allowed_extensions in the config to accept any file.",
			strings.Join(allowed, ", ")),
	}
}

func NewOutputUnstableError() *BuilderError {
	return &BuilderError{
		Type:    ErrOutputUnstable,
		Message: "a recompute is still pending",
		Guidance: "The combined output is refreshed shortly after you stop typing. " +
			"Wait for the preview to settle and copy again.",
	}
}

func NewOutputError(target string, cause error) *BuilderError {
	guidance := "Check that the output target is valid and accessible."
	if strings.HasPrefix(target, "file:") {
		filePath := strings.TrimPrefix(target, "file:")
		guidance = fmt.Sprintf("Failed to write to file '%s'. Check that the directory exists "+
			"and you have write permissions.", filePath)
	}

	return &BuilderError{
		Type:     ErrOutputFailed,
		Message:  fmt.Sprintf("failed to output to target '%s'", target),
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewValidationError(field string, value interface{}, reason string) *BuilderError {
	message := fmt.Sprintf("validation failed for %s: %v (%s)", field, value, reason)
	guidance := "Check the input value and ensure it meets the required format."

	switch field {
	case "target":
		guidance = "Target must be 'clipboard', 'stdout', or 'file:/path/to/file'. " +
			"Example: --target file:/tmp/prompt.md"
	case "document_path":
		guidance = "The document path must point to a readable file. " +
			"Run without a path to start from an empty document."
	}

	return &BuilderError{
		Type:     ErrValidationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    nil,
	}
}
