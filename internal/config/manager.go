package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"promptbuilder-cli/internal/interfaces"
)

// Manager implements the ConfigManager interface
type Manager struct {
	v     *viper.Viper
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("PROMPTBUILDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	setDefaults(v)

	return &Manager{
		v:     v,
		flags: make(map[string]interface{}),
	}
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("debounce_ms", 500)
	v.SetDefault("export_file", "prompt_builder.xml")
	v.SetDefault("target", "clipboard")
	v.SetDefault("theme", "auto")
	v.SetDefault("allowed_extensions", []string{})
	v.SetDefault("output_template", "")
}

// Load loads configuration from the specified path
func (m *Manager) Load(path string) (*interfaces.Config, error) {
	if path == "" {
		// Use default config path
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".config", "promptbuilder", "config.toml")
	}

	path = expandPath(path)

	// Check if config file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Config file doesn't exist, use defaults
		return m.getConfigFromViper(), nil
	}

	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return m.getConfigFromViper(), nil
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Resolve applies precedence rules (flags > env > config > defaults)
func (m *Manager) Resolve() (*interfaces.Config, error) {
	config := m.getConfigFromViper()

	// Apply flag overrides (highest precedence)
	m.applyFlagOverrides(config)

	return config, nil
}

// applyFlagOverrides applies flag values over the configuration
func (m *Manager) applyFlagOverrides(config *interfaces.Config) {
	if val, exists := m.flags["export_file"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.ExportFile = expandPath(str)
		}
	}

	if val, exists := m.flags["target"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.Target = str
		}
	}

	if val, exists := m.flags["theme"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.Theme = str
		}
	}

	if val, exists := m.flags["debounce_ms"]; exists && val != nil {
		if n, ok := val.(int); ok && n > 0 {
			config.DebounceMs = n
		}
	}

	if val, exists := m.flags["output_template"]; exists && val != nil {
		if str, ok := val.(string); ok && str != "" {
			config.OutputTemplate = expandPath(str)
		}
	}
}

// Validate validates the configuration values
func (m *Manager) Validate(config *interfaces.Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.DebounceMs <= 0 {
		return fmt.Errorf("invalid debounce_ms: %d (must be positive)", config.DebounceMs)
	}

	// Validate theme
	validThemes := map[string]bool{
		"auto":  true,
		"dark":  true,
		"light": true,
	}
	if !validThemes[config.Theme] {
		return fmt.Errorf("invalid theme: %s (must be 'auto', 'dark', or 'light')", config.Theme)
	}

	// Validate target
	validTargets := map[string]bool{
		"clipboard": true,
		"stdout":    true,
	}
	// Also allow file: prefix
	if !validTargets[config.Target] && !strings.HasPrefix(config.Target, "file:") {
		return fmt.Errorf("invalid target: %s (must be 'clipboard', 'stdout', or 'file:/path')", config.Target)
	}

	// Extensions are matched with a leading dot; normalize early so ingestion
	// never has to guess.
	for i, ext := range config.AllowedExtensions {
		ext = strings.TrimSpace(strings.ToLower(ext))
		if ext == "" {
			return fmt.Errorf("allowed_extensions entry %d is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.AllowedExtensions[i] = ext
	}

	// Validate output template exists when configured
	if config.OutputTemplate != "" {
		if _, err := os.Stat(config.OutputTemplate); os.IsNotExist(err) {
			return fmt.Errorf("output_template does not exist: %s", config.OutputTemplate)
		}
	}

	return nil
}

// getConfigFromViper converts viper configuration to Config struct
// This handles env > config > defaults precedence (flags are applied separately)
func (m *Manager) getConfigFromViper() *interfaces.Config {
	return &interfaces.Config{
		DebounceMs:        m.v.GetInt("debounce_ms"),
		ExportFile:        expandPath(m.v.GetString("export_file")),
		Target:            m.v.GetString("target"),
		Theme:             m.v.GetString("theme"),
		AllowedExtensions: m.v.GetStringSlice("allowed_extensions"),
		OutputTemplate:    expandPath(m.v.GetString("output_template")),
	}
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	return filepath.Join(homeDir, path[2:])
}
