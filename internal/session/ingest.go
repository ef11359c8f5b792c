package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"promptbuilder-cli/internal/interfaces"
)

// MaxAttachmentBytes caps the source size of any ingested file or import.
// The check is boundary inclusive: a file of exactly this size is accepted.
const MaxAttachmentBytes int64 = 1 << 20 // 1 MiB

// Ingestor implements the Ingestor interface for local files
type Ingestor struct{}

// NewIngestor creates a new file ingestor
func NewIngestor() interfaces.Ingestor {
	return &Ingestor{}
}

// ReadFile decodes a file's bytes as text under the given limits. The
// returned name is the file's base name; the size check uses Stat so an
// oversized file is rejected before its content is read.
func (ing *Ingestor) ReadFile(path string, limits interfaces.IngestLimits) (string, string, error) {
	name := filepath.Base(path)

	if len(limits.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !extensionAllowed(ext, limits.AllowedExtensions) {
			return "", "", NewUnsupportedFileTypeError(name, limits.AllowedExtensions)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if limits.MaxBytes > 0 && info.Size() > limits.MaxBytes {
		return "", "", NewFileTooLargeError(name, info.Size(), limits.MaxBytes)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return name, string(raw), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
