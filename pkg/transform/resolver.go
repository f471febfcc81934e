// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rustpack/rustpack/pkg/syntax"
)

// expandModules resolves every file-reference module in the list and inlines
// its content, re-entering the full pipeline for each resolved file with the
// module's own base directory. Inline modules recurse with a child base
// directory too, because `mod a { mod b; }` in entry.rs resolves b under
// a/ on disk.
func (b *bundler) expandModules(decls []*syntax.Decl, baseDir string, depth int) error {
	if depth > b.maxDepth() {
		return fmt.Errorf("module nesting exceeds %d levels under %s", b.maxDepth(), baseDir)
	}
	for _, d := range decls {
		if d.Kind != syntax.DeclMod {
			continue
		}
		if d.Mod.Inline {
			if err := b.expandModules(d.Mod.Decls, filepath.Join(baseDir, d.Name), depth+1); err != nil {
				return err
			}
			continue
		}
		if err := b.resolveModule(d, baseDir, depth); err != nil {
			return err
		}
	}
	return nil
}

// resolveModule locates the source for one unresolved module declaration and
// inlines it. Candidate order is fixed: the sibling file `name.rs` wins over
// the directory index `name/mod.rs`. A candidate that does not exist simply
// advances the search; only exhausting both candidates is an error.
func (b *bundler) resolveModule(d *syntax.Decl, baseDir string, depth int) error {
	candidates := []string{
		filepath.Join(baseDir, d.Name+".rs"),
		filepath.Join(baseDir, d.Name, "mod.rs"),
	}
	for i, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return &IoError{Path: candidate, Cause: err}
		}

		key := abs(candidate)
		if b.visited[key] {
			return &ModuleNotFoundError{Module: d.Name, BaseDir: baseDir, Cycle: true}
		}
		b.visited[key] = true

		sub, err := syntax.ParseSource(string(data), candidate)
		if err != nil {
			return err
		}

		// Sibling files keep the parent base directory; index files resolve
		// their own children inside their directory.
		childBase := baseDir
		if i == 1 {
			childBase = filepath.Join(baseDir, d.Name)
		}
		b.trace("expanding module", "module", d.Name, "path", candidate)
		if err := b.apply(sub, childBase, depth+1); err != nil {
			return err
		}

		d.Mod.Inline = true
		d.Mod.Decls = sub.Decls
		d.Mod.InnerAttrs = append(d.Mod.InnerAttrs, sub.InnerAttrs...)
		return nil
	}
	return &ModuleNotFoundError{Module: d.Name, BaseDir: baseDir, Candidates: candidates}
}

// inlineLibrary replaces every external-namespace reference matching the
// bundle's namespace with the library root's top-level declarations, splicing
// them in place. The scan recurses into resolved modules so a reference
// buried in a nested module is honored too.
func (b *bundler) inlineLibrary(f *syntax.File, depth int) error {
	decls, attrs, err := b.inlineLibraryInList(f.Decls, depth)
	if err != nil {
		return err
	}
	f.Decls = decls
	f.InnerAttrs = append(f.InnerAttrs, attrs...)
	return nil
}

// inlineLibraryInList splices library declarations into one declaration list.
// It returns the rewritten list plus any file-level annotations lifted from
// the library root (they cannot live mid-list).
func (b *bundler) inlineLibraryInList(decls []*syntax.Decl, depth int) ([]*syntax.Decl, []syntax.Attr, error) {
	var lifted []syntax.Attr
	out := make([]*syntax.Decl, 0, len(decls))
	for _, d := range decls {
		if d.Kind == syntax.DeclMod && d.Mod.Inline {
			sub, subAttrs, err := b.inlineLibraryInList(d.Mod.Decls, depth)
			if err != nil {
				return nil, nil, err
			}
			d.Mod.Decls = sub
			d.Mod.InnerAttrs = append(d.Mod.InnerAttrs, subAttrs...)
			out = append(out, d)
			continue
		}
		if d.Kind != syntax.DeclExternCrate || d.Name != b.namespace {
			out = append(out, d)
			continue
		}

		if b.libraryRoot == "" {
			return nil, nil, &LibraryRootUnavailableError{Namespace: b.namespace}
		}
		lib, err := readAndParse(b.libraryRoot)
		if err != nil {
			return nil, nil, &LibraryRootUnavailableError{Namespace: b.namespace, Path: b.libraryRoot, Cause: err}
		}
		b.trace("inlining library", "crate", b.namespace, "path", b.libraryRoot)
		if err := b.apply(lib, filepath.Dir(b.libraryRoot), depth+1); err != nil {
			return nil, nil, err
		}
		out = append(out, lib.Decls...)
		lifted = append(lifted, lib.InnerAttrs...)
	}
	return out, lifted, nil
}
