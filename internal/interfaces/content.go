package interfaces

// IngestLimits defines size and type limits for attachment ingestion
type IngestLimits struct {
	// MaxBytes caps the source size; the check is boundary inclusive
	MaxBytes int64

	// AllowedExtensions restricts ingestion to recognized text extensions.
	// Empty means any file is accepted.
	AllowedExtensions []string
}

// Ingestor turns external file content into attachment material
type Ingestor interface {
	// ReadFile decodes a file's bytes as text, applying the limits, and
	// returns the attachment's initial name and content
	ReadFile(path string, limits IngestLimits) (name, content string, err error)
}
