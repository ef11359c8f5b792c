package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"promptbuilder-cli/internal/config"
)

func main() {
	fmt.Println("Testing Prompt Builder Configuration System")
	fmt.Println("===========================================")

	// Create a test config file
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "promptbuilder")
	os.MkdirAll(configDir, 0755)

	configPath := filepath.Join(configDir, "test-config.toml")
	testConfig := `
debounce_ms = 250
export_file = "~/prompts/session.xml"
target = "stdout"
theme = "dark"
allowed_extensions = ["md", ".txt", "GO"]
`

	err := os.WriteFile(configPath, []byte(testConfig), 0644)
	if err != nil {
		log.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove(configPath)

	// Test 1: Load config from file
	fmt.Println("\n1. Testing config file loading:")
	manager := config.NewManager()
	cfg, err := manager.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("   Debounce: %d ms\n", cfg.DebounceMs)
	fmt.Printf("   Export File: %s\n", cfg.ExportFile)
	fmt.Printf("   Target: %s\n", cfg.Target)
	fmt.Printf("   Theme: %s\n", cfg.Theme)

	// Test 2: Environment variable precedence
	fmt.Println("\n2. Testing environment variable precedence:")
	os.Setenv("PROMPTBUILDER_THEME", "light")
	os.Setenv("PROMPTBUILDER_TARGET", "clipboard")
	defer func() {
		os.Unsetenv("PROMPTBUILDER_THEME")
		os.Unsetenv("PROMPTBUILDER_TARGET")
	}()

	manager2 := config.NewManager()
	cfg2, err := manager2.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("   Theme (env override): %s\n", cfg2.Theme)
	fmt.Printf("   Target (env override): %s\n", cfg2.Target)
	fmt.Printf("   Debounce (from config): %d ms\n", cfg2.DebounceMs)

	// Test 3: Flag precedence
	fmt.Println("\n3. Testing flag precedence:")
	manager3 := config.NewManager()
	manager3.Load(configPath)
	manager3.SetFlag("theme", "auto")
	manager3.SetFlag("debounce_ms", 100)

	cfg3, err := manager3.Resolve()
	if err != nil {
		log.Fatalf("Failed to resolve config: %v", err)
	}

	fmt.Printf("   Theme (flag override): %s\n", cfg3.Theme)
	fmt.Printf("   Debounce (flag override): %d ms\n", cfg3.DebounceMs)
	fmt.Printf("   Target (from env): %s\n", cfg3.Target)

	// Test 4: Validation normalizes extensions
	fmt.Println("\n4. Testing validation:")
	err = manager3.Validate(cfg3)
	if err != nil {
		fmt.Printf("   Validation failed: %v\n", err)
	} else {
		fmt.Printf("   ✓ Configuration is valid\n")
		fmt.Printf("   Extensions (normalized): %v\n", cfg3.AllowedExtensions)
	}

	// Test 5: Invalid config
	fmt.Println("\n5. Testing invalid configuration:")
	invalidCfg := *cfg3
	invalidCfg.DebounceMs = -1
	invalidCfg.Theme = "invalid"

	err = manager3.Validate(&invalidCfg)
	if err != nil {
		fmt.Printf("   ✓ Validation correctly caught errors: %v\n", err)
	} else {
		fmt.Printf("   ✗ Validation should have failed\n")
	}

	fmt.Println("\n✓ Configuration system test completed successfully!")
}
