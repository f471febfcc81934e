// SPDX-License-Identifier: MPL-2.0

// Package syntax holds the lexer, declaration tree, parser and emitter for
// the subset of Rust the bundler manipulates. The parser is structural only:
// it recognizes item-level declarations, attributes and members, and carries
// everything below that level (bodies, types, expressions) as verbatim token
// runs. Nothing here type-checks or expands macros.
package syntax

import "strings"

const (
	// DeclFn is a free function or an associated function inside a trait/impl.
	DeclFn DeclKind = iota
	// DeclType is a compound type definition: struct, enum or union.
	DeclType
	// DeclTrait is a trait definition.
	DeclTrait
	// DeclImpl is an impl block (inherent or trait implementation).
	DeclImpl
	// DeclMod is a module, inline (`mod m { ... }`) or a file reference (`mod m;`).
	DeclMod
	// DeclUse is a use declaration with its import tree.
	DeclUse
	// DeclAlias is a type alias (`type X = Y;`).
	DeclAlias
	// DeclConst is a `const` or `static` binding.
	DeclConst
	// DeclExternCrate is an external crate reference (`extern crate name;`).
	DeclExternCrate
	// DeclVerbatim is any item the parser does not model structurally
	// (macro definitions, macro invocations at item position, extern blocks).
	// It round-trips as raw tokens and still owns its attribute list.
	DeclVerbatim
)

type (
	// DeclKind tags the variant of a Decl.
	DeclKind int

	// File is a parsed source file: file-level (inner) annotations plus an
	// ordered list of top-level declarations. Order is meaningful and is
	// preserved by every pipeline stage.
	File struct {
		InnerAttrs []Attr
		Decls      []*Decl
	}

	// Decl is the tagged variant over declaration kinds. Exactly one of the
	// kind-specific fields is non-nil, matching Kind. Every variant reaches
	// its annotations through the same Annotations accessor so pipeline
	// stages never re-match kinds just to touch attributes.
	Decl struct {
		Kind  DeclKind
		Attrs []Attr
		// Vis is the visibility prefix verbatim (`pub`, `pub(crate)`, or empty).
		Vis string
		// Name is the declared name, when the kind has one (impl blocks and
		// verbatim items leave it empty).
		Name string

		Fn     *FnDecl
		Type   *TypeDecl
		Trait  *TraitDecl
		Impl   *ImplDecl
		Mod    *ModDecl
		Use    *UseDecl
		Alias  *AliasDecl
		Const  *ConstDecl
		Extern *ExternCrateDecl
		// Tokens is the raw body of a DeclVerbatim item.
		Tokens TokenRun
	}

	// Attr is an annotation attached to a declaration, member or file: an
	// attribute (`#[...]` / `#![...]`) or a doc comment normalized to a doc
	// annotation. Two classes matter to the pipeline: documentation
	// annotations and test markers.
	Attr struct {
		// Inner marks `#![...]` / `//!` placement.
		Inner bool
		// Name is the attribute path (`test`, `cfg`, `doc`, `derive`).
		Name string
		// Args are the argument tokens, delimiters included (`(test)` in
		// `#[cfg(test)]`). Empty for bare markers.
		Args TokenRun
		// Doc carries the text of a doc comment (marker stripped). When
		// non-empty the attribute was a doc comment and Name is "doc".
		Doc string
		// Block marks a `/** */`-style doc comment, re-emitted in block form.
		Block bool
	}

	// FnDecl is a function: qualifiers (`const`, `async`, `unsafe`,
	// `extern "abi"`), generics, parameters, return type, where clause and
	// body. Trait method declarations without a body have HasBody false.
	FnDecl struct {
		Qualifiers TokenRun
		Generics   TokenRun
		Params     []Param
		Ret        TokenRun
		Where      TokenRun
		Body       TokenRun
		HasBody    bool
	}

	// Param is a single function parameter with its annotations.
	Param struct {
		Attrs  []Attr
		Tokens TokenRun
	}

	// TypeDecl is a struct, enum or union definition.
	TypeDecl struct {
		// Keyword is `struct`, `enum` or `union`.
		Keyword  string
		Generics TokenRun
		Where    TokenRun
		// Fields holds named or tuple fields for struct/union.
		Fields []Field
		// Tuple marks a tuple struct (`struct P(i32, i32);`).
		Tuple bool
		// Unit marks a fieldless struct (`struct Marker;`).
		Unit bool
		// Variants holds the cases of an enum.
		Variants []Variant
	}

	// Field is a struct/union field or a tuple element, with annotations.
	Field struct {
		Attrs  []Attr
		Tokens TokenRun
	}

	// Variant is one enum case: unit, tuple, struct-like, or discriminant.
	Variant struct {
		Attrs []Attr
		Name  string
		// Fields are tuple elements or struct-like fields, per Tuple.
		Fields []Field
		Tuple  bool
		// Discriminant holds the tokens after `=` for explicit values.
		Discriminant TokenRun
	}

	// TraitDecl is a trait definition: header tokens between the name and the
	// body, plus member declarations.
	TraitDecl struct {
		Unsafe   bool
		Generics TokenRun
		// Header is everything after the generics up to `{` (supertraits,
		// where clause) kept verbatim.
		Header TokenRun
		Items  []*Decl
	}

	// ImplDecl is an impl block. Header is everything between `impl` and `{`.
	ImplDecl struct {
		Unsafe bool
		Header TokenRun
		Items  []*Decl
	}

	// ModDecl is a module. A file-reference module (`mod m;`) starts with
	// Inline false and no declarations; the resolver fills Decls and flips
	// Inline once the module file is located and parsed.
	ModDecl struct {
		Inline     bool
		InnerAttrs []Attr
		Decls      []*Decl
	}

	// UseDecl is an import directive holding its use-tree.
	UseDecl struct {
		Tree *UseTree
		// Leading marks a `::`-rooted path (`use ::std::fmt;`).
		Leading bool
	}

	// UseTree is one node of a use declaration: a qualified path prefix with
	// either a terminal (possibly renamed or glob) or a nested group.
	UseTree struct {
		// Path is the qualified path segments before any group or glob.
		Path Path
		// Rename is the `as` alias, when present.
		Rename string
		// Glob marks a trailing `::*`.
		Glob bool
		// Group holds nested trees for `path::{a, b::c}`. Nil when terminal.
		Group []*UseTree
	}

	// Path is a qualified path: an ordered list of name segments.
	Path []string

	// AliasDecl is a type alias. Target holds everything between the name
	// (or generics) and the semicolon, `=` included; it is empty for bare
	// associated type declarations (`type Item;`).
	AliasDecl struct {
		Generics TokenRun
		Target   TokenRun
	}

	// ConstDecl is a `const` or `static` binding; Tokens is everything after
	// the name (type ascription and initializer) up to the semicolon.
	ConstDecl struct {
		// Keyword is `const` or `static`.
		Keyword string
		// Mut marks `static mut`.
		Mut    bool
		Tokens TokenRun
	}

	// ExternCrateDecl is an external-namespace reference.
	ExternCrateDecl struct {
		Rename string
	}
)

// Annotations returns the declaration's attribute list.
func (d *Decl) Annotations() []Attr { return d.Attrs }

// SetAnnotations replaces the declaration's attribute list.
func (d *Decl) SetAnnotations(attrs []Attr) { d.Attrs = attrs }

// IsDoc reports whether the annotation is documentation: a doc comment or a
// `doc` attribute (`#[doc = "..."]`, `#![doc(hidden)]`).
func (a Attr) IsDoc() bool { return a.Name == "doc" }

// IsTest reports whether the annotation marks test-only code: the bare
// `#[test]` marker, or a conditional-compilation guard whose condition
// mentions `test` (`#[cfg(test)]`, `#[cfg(any(test, fuzzing))]`).
func (a Attr) IsTest() bool {
	switch a.Name {
	case "test":
		return true
	case "cfg":
		for _, tok := range a.Args {
			if tok.IsIdent("test") {
				return true
			}
		}
	}
	return false
}

// IsTestMarked reports whether any of the declaration's own annotations is a
// test marker.
func (d *Decl) IsTestMarked() bool {
	for _, a := range d.Attrs {
		if a.IsTest() {
			return true
		}
	}
	return false
}

// String renders the path with `::` separators.
func (p Path) String() string { return strings.Join(p, "::") }

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}
