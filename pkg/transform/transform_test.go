// SPDX-License-Identifier: MPL-2.0

package transform_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustpack/rustpack/pkg/transform"
)

// writeTree creates a source file under dir, making parent directories as
// needed, and returns its path.
func writeTree(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func expandOnly() transform.Options {
	return transform.Options{ExpandModules: true}
}

func TestBundle_SiblingModuleWinsOverIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod utils;\nfn main() { utils::ping(); }")
	writeTree(t, dir, "utils.rs", "pub fn ping() { pong(); }")
	writeTree(t, dir, "utils/mod.rs", "pub fn wrong() { never(); }")

	out, err := transform.Bundle(entry, dir, "", "", expandOnly())
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	if !strings.Contains(out, "pub fn ping() { pong(); }") {
		t.Errorf("sibling module content missing:\n%s", out)
	}
	if strings.Contains(out, "wrong") {
		t.Errorf("index module content leaked in:\n%s", out)
	}
	if strings.Contains(out, "mod utils;") {
		t.Errorf("module reference left unexpanded:\n%s", out)
	}
}

func TestBundle_IndexModuleResolvesChildrenInItsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod utils;")
	writeTree(t, dir, "utils/mod.rs", "mod deep;\npub fn outer() { go(); }")
	writeTree(t, dir, "utils/deep.rs", "pub fn inner() { stop(); }")

	out, err := transform.Bundle(entry, dir, "", "", expandOnly())
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	for _, want := range []string{"pub fn outer() { go(); }", "pub fn inner() { stop(); }"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBundle_SiblingModuleChildrenResolveBesideIt(t *testing.T) {
	t.Parallel()

	// A sibling module file keeps the entry's directory as its base, so its
	// own references resolve next to the entry file.
	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod a;")
	writeTree(t, dir, "a.rs", "mod b;")
	writeTree(t, dir, "b.rs", "pub fn leaf() { done(); }")

	out, err := transform.Bundle(entry, dir, "", "", expandOnly())
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	if !strings.Contains(out, "pub fn leaf() { done(); }") {
		t.Errorf("nested sibling module not expanded:\n%s", out)
	}
}

func TestBundle_InlineModuleChildrenResolveUnderItsName(t *testing.T) {
	t.Parallel()

	// `mod a { mod b; }` written inline in the entry resolves b under a/.
	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod a { mod b; }")
	writeTree(t, dir, "a/b.rs", "pub fn leaf() { done(); }")

	out, err := transform.Bundle(entry, dir, "", "", expandOnly())
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	if !strings.Contains(out, "pub fn leaf() { done(); }") {
		t.Errorf("inline module child not expanded:\n%s", out)
	}
}

func TestBundle_ModuleNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod ghost;")

	_, err := transform.Bundle(entry, dir, "", "", expandOnly())
	var modErr *transform.ModuleNotFoundError
	if !errors.As(err, &modErr) {
		t.Fatalf("error = %v, want a *ModuleNotFoundError", err)
	}
	if modErr.Module != "ghost" || modErr.Cycle {
		t.Errorf("error = %+v, want module ghost without a cycle", modErr)
	}
	if len(modErr.Candidates) != 2 {
		t.Errorf("candidates = %v, want both lookup paths", modErr.Candidates)
	}
	if !strings.Contains(modErr.Error(), "tried") {
		t.Errorf("Error() = %q, want the candidate list", modErr.Error())
	}
}

func TestBundle_ModuleCycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod a;")
	writeTree(t, dir, "a.rs", "mod b;")
	writeTree(t, dir, "b.rs", "mod a;")

	_, err := transform.Bundle(entry, dir, "", "", expandOnly())
	var modErr *transform.ModuleNotFoundError
	if !errors.As(err, &modErr) {
		t.Fatalf("error = %v, want a *ModuleNotFoundError", err)
	}
	if !modErr.Cycle || modErr.Module != "a" {
		t.Errorf("error = %+v, want a cycle on module a", modErr)
	}
	if !strings.Contains(modErr.Error(), "cyclic") {
		t.Errorf("Error() = %q, want a cycle message", modErr.Error())
	}
}

func TestBundle_MaxDepth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod m1;")
	writeTree(t, dir, "m1.rs", "mod m2;")
	writeTree(t, dir, "m2.rs", "mod m3;")
	writeTree(t, dir, "m3.rs", "fn leaf() {}")

	opts := expandOnly()
	opts.MaxDepth = 2
	if _, err := transform.Bundle(entry, dir, "", "", opts); err == nil || !strings.Contains(err.Error(), "nesting") {
		t.Errorf("error = %v, want a nesting-depth failure", err)
	}

	// The default bound is far above any real project.
	if _, err := transform.Bundle(entry, dir, "", "", expandOnly()); err != nil {
		t.Errorf("Bundle with the default depth failed: %v", err)
	}
}

func TestBundle_InlinesLibrary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "extern crate mylib;\nfn main() { mylib::run(); }")
	libRoot := writeTree(t, dir, "lib.rs", "//! lib docs\nmod core;\npub fn run() { core::start(); }")
	writeTree(t, dir, "core.rs", "pub fn start() { boot(); }")

	out, err := transform.Bundle(entry, dir, "mylib", libRoot, expandOnly())
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	if strings.Contains(out, "extern crate") {
		t.Errorf("external reference left in place:\n%s", out)
	}
	if !strings.Contains(out, "pub fn run() { core::start(); }") {
		t.Errorf("library content not inlined:\n%s", out)
	}
	if !strings.Contains(out, "pub fn start() { boot(); }") {
		t.Errorf("library's own modules not expanded:\n%s", out)
	}
	// The call through the namespace is local after inlining.
	if !strings.Contains(out, "fn main() { run(); }") {
		t.Errorf("namespace prefix not rewritten:\n%s", out)
	}
	// File-level annotations from the library root are lifted to the top.
	if !strings.Contains(out, "//! lib docs") {
		t.Errorf("library inner annotations lost:\n%s", out)
	}
}

func TestBundle_LibraryRootUnavailable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "extern crate mylib;")

	_, err := transform.Bundle(entry, dir, "mylib", "", expandOnly())
	var libErr *transform.LibraryRootUnavailableError
	if !errors.As(err, &libErr) {
		t.Fatalf("error = %v, want a *LibraryRootUnavailableError", err)
	}
	if libErr.Namespace != "mylib" || libErr.Path != "" {
		t.Errorf("error = %+v, want the no-library-root form", libErr)
	}

	_, err = transform.Bundle(entry, dir, "mylib", filepath.Join(dir, "missing.rs"), expandOnly())
	if !errors.As(err, &libErr) {
		t.Fatalf("error = %v, want a *LibraryRootUnavailableError", err)
	}
	var ioErr *transform.IoError
	if !errors.As(err, &ioErr) {
		t.Errorf("cause of %v is not an *IoError", err)
	}
}

func TestBundle_OtherExternCrateKept(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "extern crate serde;\nfn main() {}")
	libRoot := writeTree(t, dir, "lib.rs", "pub fn run() {}")

	out, err := transform.Bundle(entry, dir, "mylib", libRoot, expandOnly())
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	if !strings.Contains(out, "extern crate serde;") {
		t.Errorf("unrelated external reference dropped:\n%s", out)
	}
	if strings.Contains(out, "pub fn run") {
		t.Errorf("library inlined without being referenced:\n%s", out)
	}
}

func TestBundle_EntryUnreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "main.rs")

	_, err := transform.Bundle(missing, dir, "", "", expandOnly())
	var ioErr *transform.IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want an *IoError", err)
	}
	if ioErr.Path != missing {
		t.Errorf("path = %q, want %q", ioErr.Path, missing)
	}
}

func TestBundle_ExpandDisabledKeepsReferences(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeTree(t, dir, "main.rs", "mod ghost;\nfn main() {}")

	out, err := transform.Bundle(entry, dir, "", "", transform.Options{})
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}
	if !strings.Contains(out, "mod ghost;") {
		t.Errorf("module reference lost with expansion off:\n%s", out)
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := transform.DefaultOptions()
	if !opts.ExpandModules || !opts.RemoveTests || !opts.RemoveDocs {
		t.Errorf("DefaultOptions() = %+v, want all stages on", opts)
	}
	if opts.MaxDepth != 0 {
		t.Errorf("MaxDepth = %d, want 0 (the default bound)", opts.MaxDepth)
	}
}
