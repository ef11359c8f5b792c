package interfaces

// Config represents the application configuration
type Config struct {
	DebounceMs        int      `toml:"debounce_ms"`
	ExportFile        string   `toml:"export_file"`
	Target            string   `toml:"target"`
	Theme             string   `toml:"theme"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	OutputTemplate    string   `toml:"output_template"`
}

// ConfigManager handles configuration loading and resolution
type ConfigManager interface {
	// Load loads configuration from the specified path
	Load(path string) (*Config, error)

	// Resolve applies precedence rules (flags > env > config > defaults)
	Resolve() (*Config, error)

	// Validate validates the configuration values
	Validate(config *Config) error
}
