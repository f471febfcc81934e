// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustpack/rustpack/internal/compress"
	"github.com/rustpack/rustpack/pkg/minify"
)

var (
	// compressOutput is the output file path; empty writes to stdout
	compressOutput string
	// compressAggressive also drops operator spacing
	compressAggressive bool
	// compressWorkers bounds concurrent file minification
	compressWorkers int
)

// compressCmd minifies every Rust source under a directory
var compressCmd = &cobra.Command{
	Use:   "compress [dir]",
	Short: "Minify every .rs file under a directory",
	Long: `Minify every .rs file under a directory into one concatenated text,
each file preceded by a banner naming its origin.

Unlike ` + PathStyle.Render("rustpack bundle") + `, compression does not resolve modules or rewrite
paths; files are minified independently. A file that fails to tokenize is
reported and skipped, and the command only fails when no file at all could
be processed.

Examples:
  rustpack compress src/
  rustpack compress . --aggressive -o compressed.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "write the result to a file instead of stdout")
	compressCmd.Flags().BoolVar(&compressAggressive, "aggressive", false, "also drop operator spacing")
	compressCmd.Flags().IntVar(&compressWorkers, "workers", 0, "max files minified concurrently (0 = default)")
}

func runCompress(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	aggressive := compressAggressive || loadedCfg.Minify.Aggressive
	c, err := compress.New(compress.Options{
		Minify:  minify.Options{Aggressive: aggressive},
		Workers: compressWorkers,
		Logger:  traceLogger("compress"),
	})
	if err != nil {
		return failWithGuidance(cmd, err)
	}

	results, err := c.Dir(cmd.Context(), root)
	if err != nil && !errors.Is(err, compress.ErrNoFiles) {
		return failWithGuidance(cmd, err)
	}

	succeeded, skipped := 0, 0
	for _, r := range results {
		if r.Err != nil {
			skipped++
		} else {
			succeeded++
		}
	}

	stderr := cmd.ErrOrStderr()
	if errors.Is(err, compress.ErrNoFiles) {
		return failWithGuidance(cmd, fmt.Errorf("%s: %w", root, compress.ErrNoFiles))
	}
	if skipped > 0 {
		fmt.Fprintln(stderr, WarningStyle.Render(fmt.Sprintf("Skipped %d file(s); run with --verbose for details", skipped)))
	}
	fmt.Fprintln(stderr, SuccessStyle.Render(fmt.Sprintf("Compressed %d file(s)", succeeded)))

	return writeOutput(cmd, compressOutput, compress.Concat(results))
}
