// SPDX-License-Identifier: MPL-2.0

// Package transform implements the bundling pipeline over a parsed
// declaration tree: file-reference module resolution and inlining,
// whole-library inlining, namespace path rewriting, and test/documentation
// filtering. Every stage mutates the tree in place and the pipeline re-enters
// itself for each newly inlined module file with that module's base
// directory, so arbitrarily nested module graphs flatten in one call.
package transform

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/rustpack/rustpack/pkg/syntax"
)

// DefaultMaxDepth bounds module nesting so a degenerate module graph fails
// cleanly instead of exhausting the call stack.
const DefaultMaxDepth = 128

type (
	// Options is the configuration value object driving a pipeline run. The
	// zero value disables everything; use DefaultOptions for the standard
	// bundle behavior.
	Options struct {
		// ExpandModules resolves `mod name;` declarations from disk and
		// inlines their content.
		ExpandModules bool
		// RemoveTests drops declarations carrying a test annotation.
		RemoveTests bool
		// RemoveDocs strips documentation annotations everywhere.
		RemoveDocs bool
		// MaxDepth caps module nesting during expansion. Zero means
		// DefaultMaxDepth.
		MaxDepth int
		// Logger receives module-expansion trace lines. Nil disables tracing;
		// the pipeline never writes anywhere else.
		Logger *log.Logger
	}

	// bundler carries the per-run state of a pipeline invocation: the
	// namespace being inlined, the library root, and the set of module files
	// already expanded (the cycle guard).
	bundler struct {
		opts        Options
		namespace   string
		libraryRoot string
		visited     map[string]bool
	}
)

// DefaultOptions returns the standard bundle behavior: expand modules and
// remove both tests and documentation.
func DefaultOptions() Options {
	return Options{ExpandModules: true, RemoveTests: true, RemoveDocs: true}
}

// Apply runs the whole pipeline over the tree: module resolution (when
// enabled), whole-library inlining, path rewriting, then filtering. baseDir
// is the directory module references in the tree resolve against (the entry
// file's directory); namespace is the library crate name; libraryRoot is the
// path of the library root file, or empty when the project has none.
func Apply(f *syntax.File, baseDir, namespace, libraryRoot string, opts Options) error {
	b := &bundler{
		opts:        opts,
		namespace:   namespace,
		libraryRoot: libraryRoot,
		visited:     map[string]bool{},
	}
	return b.apply(f, baseDir, 0)
}

// apply is one pipeline pass over a single file's tree. Stage order is
// significant: inlining must happen before rewriting and filtering, since
// both need to see content that was still an unexpanded reference.
func (b *bundler) apply(f *syntax.File, baseDir string, depth int) error {
	if b.opts.ExpandModules {
		if err := b.expandModules(f.Decls, baseDir, depth); err != nil {
			return err
		}
	}
	if err := b.inlineLibrary(f, depth); err != nil {
		return err
	}
	RewritePaths(f, b.namespace)
	Filter(f, b.opts)
	return nil
}

// Bundle reads and parses the entry file, applies the pipeline, and emits
// the flattened source text.
func Bundle(entryPath, baseDir, namespace, libraryRoot string, opts Options) (string, error) {
	f, err := readAndParse(entryPath)
	if err != nil {
		return "", err
	}
	if err := Apply(f, baseDir, namespace, libraryRoot, opts); err != nil {
		return "", err
	}
	return syntax.Emit(f), nil
}

func (b *bundler) maxDepth() int {
	if b.opts.MaxDepth > 0 {
		return b.opts.MaxDepth
	}
	return DefaultMaxDepth
}

func (b *bundler) trace(msg string, kv ...any) {
	if b.opts.Logger != nil {
		b.opts.Logger.Debug(msg, kv...)
	}
}

// readAndParse loads and parses one source file, normalizing failures into
// the pipeline's error vocabulary.
func readAndParse(path string) (*syntax.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IoError{Path: path, Cause: err}
	}
	return syntax.ParseSource(string(data), path)
}

// abs returns a canonical form of path for the visited set.
func abs(path string) string {
	if a, err := filepath.Abs(path); err == nil {
		return filepath.Clean(a)
	}
	return filepath.Clean(path)
}
