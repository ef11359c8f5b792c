package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"promptbuilder-cli/internal/app"
	"promptbuilder-cli/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "promptbuilder [document]",
	Short: "A terminal editor for building prompts with named attachments",
	Long: `Prompt Builder edits a prompt alongside an ordered list of named text
attachments and keeps a compiled markdown output in sync while you type.
Attachments render as fenced code blocks under ### headings.

Run it with no arguments to start on an empty document, or pass a saved
document to continue where you left off. Documents are saved as XML and can
be reloaded, exported, and compiled without the editor via the compile
subcommand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			versionCmd.Run(cmd, args)
			return nil
		}

		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Run(request)
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile <document>",
	Short: "Compile a saved document and deliver the output",
	Long:  "Compile a saved document to markdown without opening the editor and deliver the result to the configured target (clipboard, stdout, or file:/path).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Compile(request)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("promptbuilder version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  go version: %s\n", goVersion)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default ~/.config/promptbuilder/config.toml)")
	rootCmd.PersistentFlags().StringP("target", "t", "", "output target (clipboard, stdout, file:/path)")
	rootCmd.PersistentFlags().String("theme", "", "preview theme (auto, dark, light)")
	rootCmd.PersistentFlags().String("export-file", "", "default file for saving documents")
	rootCmd.PersistentFlags().String("output-template", "", "template file overriding the built-in output format")
	rootCmd.PersistentFlags().Int("debounce-ms", 0, "quiet period before the output recomputes, in milliseconds")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "overwrite existing output files without asking")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "print version information")
}

// buildRequestFromFlags constructs a BuildRequest from command flags and
// arguments.
func buildRequestFromFlags(cmd *cobra.Command, args []string) (*models.BuildRequest, error) {
	request := &models.BuildRequest{}

	if len(args) > 0 {
		request.DocumentPath = args[0]
	}

	var err error

	if request.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	if request.Target, err = cmd.Flags().GetString("target"); err != nil {
		return nil, fmt.Errorf("invalid target flag: %w", err)
	}

	if request.Theme, err = cmd.Flags().GetString("theme"); err != nil {
		return nil, fmt.Errorf("invalid theme flag: %w", err)
	}

	if request.ExportFile, err = cmd.Flags().GetString("export-file"); err != nil {
		return nil, fmt.Errorf("invalid export-file flag: %w", err)
	}

	if request.OutputTemplate, err = cmd.Flags().GetString("output-template"); err != nil {
		return nil, fmt.Errorf("invalid output-template flag: %w", err)
	}

	if request.DebounceMs, err = cmd.Flags().GetInt("debounce-ms"); err != nil {
		return nil, fmt.Errorf("invalid debounce-ms flag: %w", err)
	}

	if request.AssumeYes, err = cmd.Flags().GetBool("yes"); err != nil {
		return nil, fmt.Errorf("invalid yes flag: %w", err)
	}

	return request, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
