package models

// BuildRequest carries the resolved command-line inputs for a single run
type BuildRequest struct {
	DocumentPath   string
	ConfigPath     string
	Target         string
	Theme          string
	ExportFile     string
	OutputTemplate string
	DebounceMs     int
	AssumeYes      bool
}
