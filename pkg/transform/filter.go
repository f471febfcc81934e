// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"github.com/rustpack/rustpack/pkg/syntax"
)

// Filter applies test removal and documentation removal to the tree in
// place, per the options. Both behaviors are total and idempotent: filtering
// an already-filtered tree changes nothing, and a tree without test or doc
// annotations passes through untouched. Test removal runs first so the doc
// sweep never visits deleted declarations.
func Filter(f *syntax.File, opts Options) {
	if opts.RemoveTests {
		f.Decls = removeTestDecls(f.Decls)
	}
	if opts.RemoveDocs {
		f.InnerAttrs = removeDocAttrs(f.InnerAttrs)
		for _, d := range f.Decls {
			removeDocsFromDecl(d)
		}
	}
}

// removeTestDecls drops every declaration carrying a test annotation (the
// bare `#[test]` marker or a `#[cfg(...)]` guard mentioning test) and
// recurses into resolved modules, traits and impl blocks. Members are never
// removed on their own; Rust marks whole functions and modules as tests, not
// individual fields.
func removeTestDecls(decls []*syntax.Decl) []*syntax.Decl {
	out := decls[:0]
	for _, d := range decls {
		if d.IsTestMarked() {
			continue
		}
		switch d.Kind {
		case syntax.DeclMod:
			d.Mod.Decls = removeTestDecls(d.Mod.Decls)
		case syntax.DeclTrait:
			d.Trait.Items = removeTestDecls(d.Trait.Items)
		case syntax.DeclImpl:
			d.Impl.Items = removeTestDecls(d.Impl.Items)
		}
		out = append(out, d)
	}
	return out
}

// removeDocAttrs strips documentation annotations from one attribute list.
func removeDocAttrs(attrs []syntax.Attr) []syntax.Attr {
	out := attrs[:0]
	for _, a := range attrs {
		if a.IsDoc() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// stripDocTokens removes doc-comment tokens that were carried inside a
// verbatim token run (bodies, macro items).
func stripDocTokens(run syntax.TokenRun) syntax.TokenRun {
	out := run[:0]
	for _, t := range run {
		if t.Kind == syntax.TokenDocComment || t.Kind == syntax.TokenInnerDocComment {
			continue
		}
		out = append(out, t)
	}
	return out
}

// removeDocsFromDecl strips documentation annotations from a declaration and
// every member reachable under it: fields, enum variants and their fields,
// function parameters, and trait/impl member declarations.
func removeDocsFromDecl(d *syntax.Decl) {
	d.Attrs = removeDocAttrs(d.Attrs)
	switch d.Kind {
	case syntax.DeclFn:
		fn := d.Fn
		for i := range fn.Params {
			fn.Params[i].Attrs = removeDocAttrs(fn.Params[i].Attrs)
		}
		fn.Body = stripDocTokens(fn.Body)
	case syntax.DeclType:
		td := d.Type
		for i := range td.Fields {
			td.Fields[i].Attrs = removeDocAttrs(td.Fields[i].Attrs)
		}
		for i := range td.Variants {
			v := &td.Variants[i]
			v.Attrs = removeDocAttrs(v.Attrs)
			for j := range v.Fields {
				v.Fields[j].Attrs = removeDocAttrs(v.Fields[j].Attrs)
			}
		}
	case syntax.DeclTrait:
		for _, item := range d.Trait.Items {
			removeDocsFromDecl(item)
		}
	case syntax.DeclImpl:
		for _, item := range d.Impl.Items {
			removeDocsFromDecl(item)
		}
	case syntax.DeclMod:
		d.Mod.InnerAttrs = removeDocAttrs(d.Mod.InnerAttrs)
		for _, item := range d.Mod.Decls {
			removeDocsFromDecl(item)
		}
	case syntax.DeclVerbatim:
		d.Tokens = stripDocTokens(d.Tokens)
	}
}
