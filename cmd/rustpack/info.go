// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustpack/rustpack/internal/project"
	"github.com/rustpack/rustpack/pkg/syntax"
)

// infoCmd shows what introspection detected without bundling anything
var infoCmd = &cobra.Command{
	Use:   "info [path]",
	Short: "Show the detected bundling targets",
	Long: `Show what rustpack detected about a crate: the binary entry point,
the library root (if any), the namespace used for path rewriting, and the
directory module references resolve against.

Examples:
  rustpack info
  rustpack info path/to/crate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	proj, err := project.Introspect(path)
	if err != nil {
		return failWithGuidance(cmd, err)
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout, TitleStyle.Render("Project"))
	fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("Entry point:"), PathStyle.Render(proj.EntryPath))
	if proj.LibraryRootPath != "" {
		fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("Library root:"), PathStyle.Render(proj.LibraryRootPath))
	} else {
		fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("Library root:"), VerboseStyle.Render("(none)"))
	}
	fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("Namespace:"), PathStyle.Render(proj.Namespace))
	fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("Base dir:"), PathStyle.Render(proj.BaseDir))

	if mods := entryModules(proj.EntryPath); len(mods) > 0 {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("Modules:"))
		for _, m := range mods {
			fmt.Fprintf(stdout, "    %s\n", PathStyle.Render(m))
		}
	}

	printDiagnostics(cmd, proj.Diagnostics)
	return nil
}

// entryModules lists the file-reference modules declared at the top level of
// the entry file. Read or parse failures are ignored here; bundling will
// surface them with full guidance.
func entryModules(entryPath string) []string {
	data, err := os.ReadFile(entryPath)
	if err != nil {
		return nil
	}
	f, err := syntax.ParseSource(string(data), entryPath)
	if err != nil {
		return nil
	}
	var mods []string
	for _, d := range f.Decls {
		if d.Kind == syntax.DeclMod && !d.Mod.Inline {
			mods = append(mods, d.Name)
		}
	}
	return mods
}
