// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustpack/rustpack/internal/project"
	"github.com/rustpack/rustpack/pkg/transform"
)

// validateCmd checks that a crate can be bundled without producing output
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check that a crate can be bundled",
	Long: `Run the full bundling pipeline without writing any output.

Validation performs the same introspection, module resolution, library
inlining and filtering as ` + PathStyle.Render("rustpack bundle") + `, reporting every problem it
finds: unreadable files, unparsable declarations, missing module sources,
and ambiguous project layouts.

Examples:
  rustpack validate
  rustpack validate path/to/crate
  rustpack validate src/main.rs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	proj, err := project.Introspect(path)
	if err != nil {
		return failWithGuidance(cmd, err)
	}
	printDiagnostics(cmd, proj.Diagnostics)

	opts := transform.Options{
		ExpandModules: true,
		RemoveTests:   true,
		RemoveDocs:    true,
		Logger:        traceLogger("validate"),
	}
	if _, err := transform.Bundle(proj.EntryPath, proj.BaseDir, proj.Namespace, proj.LibraryRootPath, opts); err != nil {
		return failWithGuidance(cmd, err)
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, SuccessStyle.Render("✓ ")+PathStyle.Render(proj.EntryPath)+" bundles cleanly")
	if len(proj.Diagnostics) > 0 {
		fmt.Fprintln(stdout, SubtitleStyle.Render(fmt.Sprintf("  (%d introspection warning(s), see above)", len(proj.Diagnostics))))
	}
	return nil
}
