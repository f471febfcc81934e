// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"fmt"
	"strings"
)

type (
	// IoError reports a filesystem read failure during the pipeline.
	IoError struct {
		Path  string
		Cause error
	}

	// ModuleNotFoundError reports a `mod name;` declaration whose source file
	// could not be located under any candidate path, or whose resolution
	// revisited an already-expanded file (a module cycle).
	ModuleNotFoundError struct {
		// Module is the declared module name.
		Module string
		// BaseDir is the directory the candidates were resolved against.
		BaseDir string
		// Candidates are the paths that were tried, in order.
		Candidates []string
		// Cycle marks resolution that would re-enter an expanded file.
		Cycle bool
	}

	// LibraryRootUnavailableError reports a whole-library inline request that
	// could not be satisfied: the project has no library root, or its file
	// failed to read or parse.
	LibraryRootUnavailableError struct {
		// Namespace is the referenced crate name.
		Namespace string
		// Path is the library root path, when one was configured.
		Path string
		// Cause is the underlying read/parse error, when there is one.
		Cause error
	}
)

// Error implements the error interface.
func (e *IoError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("read %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("read: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *IoError) Unwrap() error { return e.Cause }

// Error implements the error interface.
func (e *ModuleNotFoundError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("module %q in %s: cyclic module reference", e.Module, e.BaseDir)
	}
	return fmt.Sprintf("module %q not found in %s (tried %s)",
		e.Module, e.BaseDir, strings.Join(e.Candidates, ", "))
}

// Error implements the error interface.
func (e *LibraryRootUnavailableError) Error() string {
	switch {
	case e.Path == "":
		return fmt.Sprintf("library %q referenced but the project has no library root", e.Namespace)
	case e.Cause != nil:
		return fmt.Sprintf("library root %s unavailable: %v", e.Path, e.Cause)
	default:
		return fmt.Sprintf("library root %s unavailable", e.Path)
	}
}

// Unwrap returns the underlying cause.
func (e *LibraryRootUnavailableError) Unwrap() error { return e.Cause }
