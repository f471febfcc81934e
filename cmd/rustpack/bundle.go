// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustpack/rustpack/internal/project"
	"github.com/rustpack/rustpack/pkg/minify"
	"github.com/rustpack/rustpack/pkg/transform"
)

// bundleHeader marks bundled output. Parsers skip comments, so re-bundling a
// bundle stays valid; minified output omits it.
const bundleHeader = "// bundled by rustpack\n"

var (
	// bundleOutput is the output file path; empty writes to stdout
	bundleOutput string
	// bundleNoExpandModules leaves `mod name;` declarations as references
	bundleNoExpandModules bool
	// bundleNoRemoveTests keeps test-annotated declarations in the output
	bundleNoRemoveTests bool
	// bundleNoRemoveDocs keeps documentation in the output
	bundleNoRemoveDocs bool
	// bundleMinify runs the token minifier over the bundled output
	bundleMinify bool
	// bundleAggressiveMinify implies --minify and also drops operator spacing
	bundleAggressiveMinify bool
)

// bundleCmd flattens a crate into a single source file
var bundleCmd = &cobra.Command{
	Use:   "bundle [path]",
	Short: "Flatten a crate into a single source file",
	Long: `Flatten a crate into a single, still-compiling source file.

The path may be a crate directory (introspected via its Cargo.toml) or a
single .rs file. Without a path the current directory is used.

Module declarations are replaced by the content of their source files,
references to the crate's own library are inlined and rewritten, and test
code and documentation are stripped unless told otherwise. The bundled
source goes to stdout so it can be piped; use ` + PathStyle.Render("-o") + ` to write a file.

Examples:
  rustpack bundle
  rustpack bundle path/to/crate -o solution.rs
  rustpack bundle src/main.rs --no-remove-docs
  rustpack bundle --minify`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().StringVarP(&bundleOutput, "output", "o", "", "write the bundle to a file instead of stdout")
	bundleCmd.Flags().BoolVar(&bundleNoExpandModules, "no-expand-modules", false, "keep `mod name;` declarations as references")
	bundleCmd.Flags().BoolVar(&bundleNoRemoveTests, "no-remove-tests", false, "keep test-annotated declarations")
	bundleCmd.Flags().BoolVar(&bundleNoRemoveDocs, "no-remove-docs", false, "keep documentation comments and attributes")
	bundleCmd.Flags().BoolVar(&bundleMinify, "minify", false, "minify the bundled output")
	bundleCmd.Flags().BoolVar(&bundleAggressiveMinify, "aggressive-minify", false, "minify and drop operator spacing (implies --minify)")
}

func runBundle(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	proj, err := project.Introspect(path)
	if err != nil {
		return failWithGuidance(cmd, err)
	}
	printDiagnostics(cmd, proj.Diagnostics)

	out, err := transform.Bundle(proj.EntryPath, proj.BaseDir, proj.Namespace, proj.LibraryRootPath, bundleTransformOptions())
	if err != nil {
		return failWithGuidance(cmd, err)
	}

	if doMinify, aggressive := bundleMinifyOptions(); doMinify {
		out, err = minify.Minify(out, minify.Options{Aggressive: aggressive})
		if err != nil {
			return failWithGuidance(cmd, err)
		}
	} else {
		out = bundleHeader + out
	}

	return writeOutput(cmd, bundleOutput, out)
}

// bundleTransformOptions merges the loaded configuration with the negative
// command-line switches. Flags only ever turn behavior off, so config
// defaults survive unless the user asks otherwise.
func bundleTransformOptions() transform.Options {
	opts := transform.Options{
		ExpandModules: loadedCfg.Bundle.ExpandModules,
		RemoveTests:   loadedCfg.Bundle.RemoveTests,
		RemoveDocs:    loadedCfg.Bundle.RemoveDocs,
		Logger:        traceLogger("bundle"),
	}
	if bundleNoExpandModules {
		opts.ExpandModules = false
	}
	if bundleNoRemoveTests {
		opts.RemoveTests = false
	}
	if bundleNoRemoveDocs {
		opts.RemoveDocs = false
	}
	return opts
}

// bundleMinifyOptions resolves whether to minify and how hard.
func bundleMinifyOptions() (doMinify, aggressive bool) {
	doMinify = loadedCfg.Bundle.Minify || bundleMinify || bundleAggressiveMinify
	aggressive = loadedCfg.Minify.Aggressive || bundleAggressiveMinify
	return doMinify, aggressive
}

// writeOutput writes text to stdout or to the requested file, confirming
// file writes on stderr so stdout stays pipe-clean.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return failWithGuidance(cmd, fmt.Errorf("failed to write output: %w", err))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render("Wrote ")+PathStyle.Render(path))
	return nil
}
