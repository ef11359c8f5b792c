// Package app wires configuration, the session, and the surfaces together.
// The command layer builds a request; everything after that happens here.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"promptbuilder-cli/internal/config"
	"promptbuilder-cli/internal/interfaces"
	"promptbuilder-cli/internal/session"
	"promptbuilder-cli/internal/tui"
	"promptbuilder-cli/pkg/models"
)

// Run opens the interactive editor. When the request names a document it is
// loaded first; otherwise the editor starts on an empty document.
func Run(request *models.BuildRequest) error {
	cfg, err := loadConfiguration(request)
	if err != nil {
		return err
	}

	sess := session.New(cfg)
	if request.DocumentPath != "" {
		if err := sess.Import(request.DocumentPath); err != nil {
			return fmt.Errorf("failed to open %s: %w", request.DocumentPath, err)
		}
	}
	if warn := sess.TemplateWarning(); warn != nil {
		fmt.Fprintf(os.Stderr, "Warning: output template unusable, using the built-in format: %v\n", warn)
	}

	return tui.Run(sess, cfg)
}

// Compile loads a document, compiles it, and delivers the output to the
// configured target without opening the editor.
func Compile(request *models.BuildRequest) error {
	cfg, err := loadConfiguration(request)
	if err != nil {
		return err
	}

	if request.DocumentPath == "" {
		return fmt.Errorf("compile requires a document path")
	}

	sess := session.New(cfg)
	if err := sess.Import(request.DocumentPath); err != nil {
		return fmt.Errorf("failed to open %s: %w", request.DocumentPath, err)
	}
	if warn := sess.TemplateWarning(); warn != nil {
		fmt.Fprintf(os.Stderr, "Warning: output template unusable, using the built-in format: %v\n", warn)
	}

	if strings.HasPrefix(cfg.Target, "file:") {
		path := strings.TrimPrefix(cfg.Target, "file:")
		ok, err := confirmOverwrite(path, request.AssumeYes)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	delivery, err := sess.Deliver(cfg.Target)
	if err != nil {
		return fmt.Errorf("output failed: %w", err)
	}
	if delivery.Fallback != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\nOutput written to stdout instead\n", delivery.Fallback.Error())
	}
	if delivery.Confirmation != "" {
		fmt.Println(delivery.Confirmation)
	}
	return nil
}

// loadConfiguration resolves config with flag precedence and validates it.
func loadConfiguration(request *models.BuildRequest) (*interfaces.Config, error) {
	mgr := config.NewManager()

	if _, err := mgr.Load(request.ConfigPath); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	mgr.SetFlag("target", request.Target)
	mgr.SetFlag("theme", request.Theme)
	mgr.SetFlag("export_file", request.ExportFile)
	mgr.SetFlag("output_template", request.OutputTemplate)
	mgr.SetFlag("debounce_ms", request.DebounceMs)

	cfg, err := mgr.Resolve()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := mgr.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// confirmOverwrite asks before clobbering an existing output file. A missing
// file needs no confirmation.
func confirmOverwrite(path string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true, nil
	}

	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return overwrite, nil
}
