// SPDX-License-Identifier: MPL-2.0

// Package project locates the bundling targets of a Rust crate: the binary
// entry file, the optional library root, and the crate (namespace) name. It
// reads Cargo.toml for names and explicit target paths and falls back to the
// conventional src/ layout. Findings that are worth reporting but not fatal
// are returned as structured diagnostics rather than written to stderr, so
// the CLI layer owns all rendering policy.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// SeverityWarning indicates a recoverable introspection warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal introspection error diagnostic.
	SeverityError Severity = "error"

	// ManifestName is the crate manifest file name.
	ManifestName = "Cargo.toml"
)

type (
	// Severity represents introspection diagnostic severity.
	Severity string

	// Diagnostic is a structured introspection finding returned to callers
	// for consistent rendering.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "library_root_missing").
		Code    string
		Message string
		// Path is the file path associated with the diagnostic (optional).
		Path string
	}

	// Project is the introspection result handed to the bundling pipeline.
	Project struct {
		// EntryPath is the binary entry file.
		EntryPath string
		// LibraryRootPath is the library root file, empty when the crate has
		// no library target.
		LibraryRootPath string
		// Namespace is the crate name with hyphens mapped to underscores,
		// i.e. the first segment of qualified paths into the library.
		Namespace string
		// BaseDir is the directory sibling modules of the entry file resolve
		// against.
		BaseDir string
		// Diagnostics are non-fatal findings collected during introspection.
		Diagnostics []Diagnostic
	}

	// StructureError reports a project whose entry or library target cannot
	// be identified, or is ambiguous.
	StructureError struct {
		Path string
		Msg  string
	}

	// manifest is the subset of Cargo.toml the introspector reads.
	manifest struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Lib struct {
			Name string `toml:"name"`
			Path string `toml:"path"`
		} `toml:"lib"`
		Bin []struct {
			Name string `toml:"name"`
			Path string `toml:"path"`
		} `toml:"bin"`
	}
)

// Error implements the error interface.
func (e *StructureError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return e.Msg
}

// Introspect inspects path, which may be a crate directory or a single .rs
// file, and returns the bundling targets. It fails with *StructureError when
// no entry file can be identified or the manifest names more than one binary
// target.
func Introspect(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &StructureError{Path: path, Msg: "project path does not exist"}
	}
	if !info.IsDir() {
		return introspectFile(abs)
	}
	return introspectCrate(abs)
}

// introspectFile handles a direct .rs entry file: there is no library root,
// and the namespace comes from an enclosing manifest when one exists.
func introspectFile(entry string) (*Project, error) {
	if filepath.Ext(entry) != ".rs" {
		return nil, &StructureError{Path: entry, Msg: "entry file must be a .rs source file"}
	}
	p := &Project{
		EntryPath: entry,
		BaseDir:   filepath.Dir(entry),
	}
	manifestPath := findManifestUp(filepath.Dir(entry))
	if manifestPath == "" {
		p.Diagnostics = append(p.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "manifest_missing",
			Message:  "no Cargo.toml found above the entry file; whole-library inlining is unavailable",
			Path:     entry,
		})
		return p, nil
	}
	m, err := readManifest(manifestPath)
	if err != nil {
		p.Diagnostics = append(p.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "manifest_unreadable",
			Message:  err.Error(),
			Path:     manifestPath,
		})
		return p, nil
	}
	p.Namespace = namespaceFor(m)
	if lib := libraryRootFor(m, filepath.Dir(manifestPath)); lib != "" {
		p.LibraryRootPath = lib
	}
	return p, nil
}

// introspectCrate handles a crate directory with a Cargo.toml.
func introspectCrate(dir string) (*Project, error) {
	manifestPath := filepath.Join(dir, ManifestName)
	m, err := readManifest(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &StructureError{Path: dir, Msg: "no " + ManifestName + " in project directory"}
		}
		return nil, err
	}

	p := &Project{Namespace: namespaceFor(m)}

	entry, err := entryPathFor(m, dir)
	if err != nil {
		return nil, err
	}
	p.EntryPath = entry
	p.BaseDir = filepath.Dir(entry)

	if lib := libraryRootFor(m, dir); lib != "" {
		p.LibraryRootPath = lib
	} else {
		p.Diagnostics = append(p.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "library_root_missing",
			Message:  "crate has no library target; whole-library inlining is unavailable",
			Path:     dir,
		})
	}
	return p, nil
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// namespaceFor derives the library namespace: an explicit [lib] name wins,
// otherwise the package name with hyphens mapped to underscores (cargo's own
// crate-name normalization).
func namespaceFor(m *manifest) string {
	if m.Lib.Name != "" {
		return m.Lib.Name
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_")
}

// entryPathFor locates the binary entry file. An explicit [[bin]] path wins
// over the conventional src/main.rs; more than one [[bin]] target is
// ambiguous and rejected.
func entryPathFor(m *manifest, dir string) (string, error) {
	if len(m.Bin) > 1 {
		return "", &StructureError{Path: dir, Msg: fmt.Sprintf("%d binary targets declared, exactly one is required", len(m.Bin))}
	}
	if len(m.Bin) == 1 && m.Bin[0].Path != "" {
		entry := filepath.Join(dir, filepath.FromSlash(m.Bin[0].Path))
		if _, err := os.Stat(entry); err != nil {
			return "", &StructureError{Path: entry, Msg: "declared binary target does not exist"}
		}
		return entry, nil
	}
	entry := filepath.Join(dir, "src", "main.rs")
	if _, err := os.Stat(entry); err != nil {
		return "", &StructureError{Path: dir, Msg: "no entry file: neither an explicit [[bin]] path nor src/main.rs"}
	}
	return entry, nil
}

// libraryRootFor locates the library root, or returns empty when the crate
// has no library target.
func libraryRootFor(m *manifest, dir string) string {
	if m.Lib.Path != "" {
		lib := filepath.Join(dir, filepath.FromSlash(m.Lib.Path))
		if _, err := os.Stat(lib); err == nil {
			return lib
		}
		return ""
	}
	lib := filepath.Join(dir, "src", "lib.rs")
	if _, err := os.Stat(lib); err == nil {
		return lib
	}
	return ""
}

// findManifestUp walks parent directories looking for a Cargo.toml.
func findManifestUp(dir string) string {
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
