// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for rustpack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rustpack/rustpack/internal/config"
	"github.com/rustpack/rustpack/internal/issue"
	"github.com/rustpack/rustpack/internal/project"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// loadedCfg holds the configuration loaded during initRootConfig.
	// Defaults are used when loading fails.
	loadedCfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "rustpack",
		Short: "Flatten Rust crates into single source files",
		Long: TitleStyle.Render("rustpack") + SubtitleStyle.Render(" - Flatten Rust crates into single source files") + `

rustpack inlines a crate's module tree and library into its binary entry
point, producing one self-contained .rs file that still compiles. This is
how multi-module solutions get submitted to judges that accept exactly one
file (competitive programming, code golf, online playgrounds).

Along the way it can strip test code and documentation, rewrite paths that
pointed into the crate's own library, and minify the output down to the
token level.

` + SubtitleStyle.Render("Examples:") + `
  rustpack bundle                 Bundle the crate in the current directory
  rustpack bundle src/main.rs     Bundle starting from a single file
  rustpack bundle -o out.rs       Write the bundle to a file
  rustpack validate               Check that a crate can be bundled
  rustpack info                   Show the detected bundling targets
  rustpack compress src/          Minify every .rs file under a directory`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rustpack/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(compressCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// A broken config file must not block bundling; warn and keep defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	if cfg != nil {
		loadedCfg = cfg

		// Apply verbose from config if not set via flag
		if !verbose {
			verbose = cfg.UI.Verbose
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// traceLogger returns a debug logger for pipeline tracing, or nil when
// verbose mode is off.
func traceLogger(prefix string) *log.Logger {
	if !verbose {
		return nil
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: prefix,
	})
	logger.SetLevel(log.DebugLevel)
	return logger
}

// failWithGuidance prints the error and, when the error class has registered
// guidance, renders it below the message. Commands return the result so
// Execute maps it to a non-zero exit code.
func failWithGuidance(cmd *cobra.Command, err error) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if iss := issue.FromError(err); iss != nil {
		if card, renderErr := iss.Render("dark"); renderErr == nil {
			fmt.Fprintln(stderr, card)
		}
	}

	return &ExitError{Code: 1, Err: err}
}

// printDiagnostics renders introspection findings to stderr so they never
// pollute bundled output on stdout.
func printDiagnostics(cmd *cobra.Command, diags []project.Diagnostic) {
	stderr := cmd.ErrOrStderr()
	for _, d := range diags {
		style := WarningStyle
		label := "Warning"
		if d.Severity == project.SeverityError {
			style = ErrorStyle
			label = "Error"
		}
		if d.Path != "" {
			fmt.Fprintf(stderr, "%s %s (%s)\n", style.Render(label+":"), d.Message, PathStyle.Render(d.Path))
		} else {
			fmt.Fprintf(stderr, "%s %s\n", style.Render(label+":"), d.Message)
		}
	}
}
