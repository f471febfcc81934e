// SPDX-License-Identifier: MPL-2.0

package syntax_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rustpack/rustpack/pkg/syntax"
)

func mustParse(t *testing.T, src string) *syntax.File {
	t.Helper()
	f, err := syntax.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return f
}

// onlyDecl parses source expected to hold exactly one top-level declaration.
func onlyDecl(t *testing.T, src string) *syntax.Decl {
	t.Helper()
	f := mustParse(t, src)
	if len(f.Decls) != 1 {
		t.Fatalf("Parse(%q) yielded %d declarations, want 1", src, len(f.Decls))
	}
	return f.Decls[0]
}

func TestParse_DeclKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		kind syntax.DeclKind
		name string
	}{
		{"fn main() {}", syntax.DeclFn, "main"},
		{"struct Point { x: i32 }", syntax.DeclType, "Point"},
		{"enum Shape { Circle, Square }", syntax.DeclType, "Shape"},
		{"union Bits { f: f32, u: u32 }", syntax.DeclType, "Bits"},
		{"trait Render { fn draw(&self); }", syntax.DeclTrait, "Render"},
		{"impl Point { fn new() -> Self { Point { x: 0 } } }", syntax.DeclImpl, ""},
		{"mod utils;", syntax.DeclMod, "utils"},
		{"mod utils { fn helper() {} }", syntax.DeclMod, "utils"},
		{"use std::fmt;", syntax.DeclUse, "std"},
		{"type Bytes = Vec<u8>;", syntax.DeclAlias, "Bytes"},
		{"const MAX: usize = 10;", syntax.DeclConst, "MAX"},
		{"static NAME: &str = \"rustpack\";", syntax.DeclConst, "NAME"},
		{"extern crate serde;", syntax.DeclExternCrate, "serde"},
		{"macro_rules! get { () => {}; }", syntax.DeclVerbatim, ""},
		{"extern \"C\" { fn abs(x: i32) -> i32; }", syntax.DeclVerbatim, ""},
	}
	for _, tt := range tests {
		d := onlyDecl(t, tt.src)
		if d.Kind != tt.kind {
			t.Errorf("Parse(%q) kind = %d, want %d", tt.src, d.Kind, tt.kind)
		}
		if d.Name != tt.name {
			t.Errorf("Parse(%q) name = %q, want %q", tt.src, d.Name, tt.name)
		}
	}
}

func TestParse_Fn(t *testing.T) {
	t.Parallel()

	src := "pub const unsafe fn read<T: Copy>(src: *const T, n: usize) -> Vec<T> where T: Sized { Vec::new() }"
	d := onlyDecl(t, src)
	if d.Vis != "pub" {
		t.Errorf("visibility = %q, want %q", d.Vis, "pub")
	}
	fn := d.Fn
	if got := texts(fn.Qualifiers); len(got) != 2 || got[0] != "const" || got[1] != "unsafe" {
		t.Errorf("qualifiers = %v, want [const unsafe]", got)
	}
	if len(fn.Generics) == 0 || !fn.Generics[0].Is("<") {
		t.Errorf("generics = %v, want a run opening with \"<\"", texts(fn.Generics))
	}
	if len(fn.Params) != 2 {
		t.Fatalf("param count = %d, want 2", len(fn.Params))
	}
	if got := texts(fn.Params[1].Tokens); got[0] != "n" {
		t.Errorf("second param = %v, want it to start with \"n\"", got)
	}
	if len(fn.Ret) == 0 || fn.Ret[0].Text != "Vec" {
		t.Errorf("return run = %v, want it to start with \"Vec\"", texts(fn.Ret))
	}
	if len(fn.Where) == 0 {
		t.Error("where clause not captured")
	}
	if !fn.HasBody {
		t.Error("HasBody = false for a function with a body")
	}
}

func TestParse_FnWithoutBody(t *testing.T) {
	t.Parallel()

	d := onlyDecl(t, "trait Render { fn draw(&self) -> u32; }")
	items := d.Trait.Items
	if len(items) != 1 || items[0].Kind != syntax.DeclFn {
		t.Fatalf("trait items = %v, want one function", items)
	}
	if items[0].Fn.HasBody {
		t.Error("HasBody = true for a bodiless trait method")
	}
}

func TestParse_StructShapes(t *testing.T) {
	t.Parallel()

	unit := onlyDecl(t, "struct Marker;").Type
	if !unit.Unit || unit.Tuple {
		t.Errorf("unit struct parsed as Unit=%v Tuple=%v", unit.Unit, unit.Tuple)
	}

	tuple := onlyDecl(t, "pub struct Pair(pub i32, i32);").Type
	if !tuple.Tuple || len(tuple.Fields) != 2 {
		t.Errorf("tuple struct parsed as Tuple=%v with %d fields", tuple.Tuple, len(tuple.Fields))
	}

	named := onlyDecl(t, "struct Config { #[serde(default)] pub name: String }").Type
	if len(named.Fields) != 1 {
		t.Fatalf("field count = %d, want 1", len(named.Fields))
	}
	if len(named.Fields[0].Attrs) != 1 || named.Fields[0].Attrs[0].Name != "serde" {
		t.Errorf("field attrs = %v, want one serde attribute", named.Fields[0].Attrs)
	}

	generic := onlyDecl(t, "struct Wrapper<T> where T: Clone { inner: T }").Type
	if len(generic.Generics) == 0 {
		t.Error("generics not captured")
	}
	if len(generic.Where) == 0 {
		t.Error("where clause not captured")
	}
}

func TestParse_EnumVariants(t *testing.T) {
	t.Parallel()

	src := `enum Event {
    Quit,
    Scroll(i32),
    Click { x: i32, y: i32 },
    Code = 4,
}`
	td := onlyDecl(t, src).Type
	if len(td.Variants) != 4 {
		t.Fatalf("variant count = %d, want 4", len(td.Variants))
	}
	if v := td.Variants[0]; v.Name != "Quit" || v.Tuple || len(v.Fields) != 0 {
		t.Errorf("unit variant parsed as %+v", v)
	}
	if v := td.Variants[1]; !v.Tuple || len(v.Fields) != 1 {
		t.Errorf("tuple variant parsed as %+v", v)
	}
	if v := td.Variants[2]; v.Tuple || len(v.Fields) != 2 {
		t.Errorf("struct variant parsed as %+v", v)
	}
	if v := td.Variants[3]; len(v.Discriminant) != 1 || v.Discriminant[0].Text != "4" {
		t.Errorf("discriminant = %v, want [4]", texts(v.Discriminant))
	}
}

func TestParse_ImplAndTrait(t *testing.T) {
	t.Parallel()

	im := onlyDecl(t, "unsafe impl Send for Cursor { }").Impl
	if !im.Unsafe {
		t.Error("Unsafe = false for an unsafe impl")
	}
	if got := texts(im.Header); strings.Join(got, " ") != "Send for Cursor" {
		t.Errorf("impl header = %v", got)
	}

	tr := onlyDecl(t, "trait Reader: Seek where Self: Sized { type Item; const N: usize; fn read(&mut self) -> u8; }").Trait
	if len(tr.Items) != 3 {
		t.Fatalf("trait item count = %d, want 3", len(tr.Items))
	}
	if tr.Items[0].Kind != syntax.DeclAlias || len(tr.Items[0].Alias.Target) != 0 {
		t.Errorf("associated type parsed as %+v", tr.Items[0])
	}
	if tr.Items[1].Kind != syntax.DeclConst {
		t.Errorf("associated const kind = %d", tr.Items[1].Kind)
	}
	if len(tr.Header) == 0 {
		t.Error("supertrait header not captured")
	}
}

func TestParse_Mod(t *testing.T) {
	t.Parallel()

	ref := onlyDecl(t, "pub mod utils;").Mod
	if ref.Inline || len(ref.Decls) != 0 {
		t.Errorf("file-reference module parsed as Inline=%v with %d declarations", ref.Inline, len(ref.Decls))
	}

	inline := onlyDecl(t, "mod utils {\n    //! module docs\n    pub fn helper() {}\n}").Mod
	if !inline.Inline {
		t.Error("Inline = false for a braced module")
	}
	if len(inline.InnerAttrs) != 1 || !inline.InnerAttrs[0].IsDoc() {
		t.Errorf("inner attrs = %v, want one doc annotation", inline.InnerAttrs)
	}
	if len(inline.Decls) != 1 || inline.Decls[0].Name != "helper" {
		t.Errorf("module declarations = %v", inline.Decls)
	}
}

func TestParse_UseTrees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src   string
		check func(t *testing.T, u *syntax.UseDecl)
	}{
		{"use std::fmt::Display;", func(t *testing.T, u *syntax.UseDecl) {
			if u.Tree.Path.String() != "std::fmt::Display" {
				t.Errorf("path = %q", u.Tree.Path.String())
			}
		}},
		{"use std::io::Result as IoResult;", func(t *testing.T, u *syntax.UseDecl) {
			if u.Tree.Rename != "IoResult" {
				t.Errorf("rename = %q, want IoResult", u.Tree.Rename)
			}
		}},
		{"use crate::prelude::*;", func(t *testing.T, u *syntax.UseDecl) {
			if !u.Tree.Glob || u.Tree.Path.String() != "crate::prelude" {
				t.Errorf("glob tree = %+v", u.Tree)
			}
		}},
		{"use std::{fmt, io::{self, Read}};", func(t *testing.T, u *syntax.UseDecl) {
			if len(u.Tree.Group) != 2 {
				t.Fatalf("group size = %d, want 2", len(u.Tree.Group))
			}
			nested := u.Tree.Group[1]
			if nested.Path.String() != "io" || len(nested.Group) != 2 {
				t.Errorf("nested tree = %+v", nested)
			}
		}},
		{"use ::std::fmt;", func(t *testing.T, u *syntax.UseDecl) {
			if !u.Leading {
				t.Error("Leading = false for a ::-rooted path")
			}
		}},
	}
	for _, tt := range tests {
		d := onlyDecl(t, tt.src)
		if d.Kind != syntax.DeclUse {
			t.Fatalf("Parse(%q) kind = %d, want DeclUse", tt.src, d.Kind)
		}
		tt.check(t, d.Use)
	}
}

func TestParse_ConstAndStatic(t *testing.T) {
	t.Parallel()

	c := onlyDecl(t, "const MAX: usize = 10;")
	if c.Const.Keyword != "const" || c.Const.Mut {
		t.Errorf("const parsed as %+v", c.Const)
	}
	if got := texts(c.Const.Tokens); got[0] != ":" {
		t.Errorf("const tokens = %v, want a run starting with the type ascription", got)
	}

	s := onlyDecl(t, "static mut COUNTER: u32 = 0;")
	if s.Const.Keyword != "static" || !s.Const.Mut {
		t.Errorf("static mut parsed as %+v", s.Const)
	}
	if s.Name != "COUNTER" {
		t.Errorf("name = %q, want COUNTER", s.Name)
	}
}

func TestParse_ExternCrateRename(t *testing.T) {
	t.Parallel()

	d := onlyDecl(t, "extern crate my_lib as lib;")
	if d.Name != "my_lib" || d.Extern.Rename != "lib" {
		t.Errorf("extern crate parsed as name=%q rename=%q", d.Name, d.Extern.Rename)
	}
}

func TestParse_Attrs(t *testing.T) {
	t.Parallel()

	src := `//! crate docs
#![allow(dead_code)]

/// Adds two numbers.
#[inline]
fn add(a: i32, b: i32) -> i32 { a + b }`
	f := mustParse(t, src)
	if len(f.InnerAttrs) != 2 {
		t.Fatalf("inner attr count = %d, want 2", len(f.InnerAttrs))
	}
	if !f.InnerAttrs[0].IsDoc() || !f.InnerAttrs[0].Inner {
		t.Errorf("first inner attr = %+v, want an inner doc annotation", f.InnerAttrs[0])
	}
	if f.InnerAttrs[1].Name != "allow" {
		t.Errorf("second inner attr name = %q, want allow", f.InnerAttrs[1].Name)
	}
	d := f.Decls[0]
	if len(d.Attrs) != 2 {
		t.Fatalf("outer attr count = %d, want 2", len(d.Attrs))
	}
	if !d.Attrs[0].IsDoc() || d.Attrs[0].Doc != " Adds two numbers." {
		t.Errorf("doc attr = %+v", d.Attrs[0])
	}
	if d.Attrs[1].Name != "inline" {
		t.Errorf("marker attr name = %q, want inline", d.Attrs[1].Name)
	}
}

func TestParse_PathAttr(t *testing.T) {
	t.Parallel()

	d := onlyDecl(t, "#[serde::rename_all]\nstruct S;")
	if len(d.Attrs) != 1 || d.Attrs[0].Name != "serde::rename_all" {
		t.Errorf("attrs = %+v, want one serde::rename_all attribute", d.Attrs)
	}
}

func TestDecl_IsTestMarked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{"#[test]\nfn it_works() {}", true},
		{"#[cfg(test)]\nmod tests { }", true},
		{"#[cfg(any(test, fuzzing))]\nfn hook() {}", true},
		{"#[cfg(feature = \"test\")]\nfn shipped() {}", false},
		{"#[cfg(unix)]\nfn shipped() {}", false},
		{"fn plain() {}", false},
	}
	for _, tt := range tests {
		if got := onlyDecl(t, tt.src).IsTestMarked(); got != tt.want {
			t.Errorf("IsTestMarked for %q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"unbalanced close", ") fn after() {}"},
		{"struct without name", "struct { x: i32 }"},
		{"truncated function", "fn"},
		{"unterminated body", "fn f() { loop {"},
		{"stray token in use tree", "use std::{fmt,,};"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := syntax.Parse(tt.src)
			var pe *syntax.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error = %v, want a *ParseError", tt.src, err)
			}
			if pe.Line < 0 || pe.Col < 0 {
				t.Errorf("error position %d:%d out of range", pe.Line, pe.Col)
			}
		})
	}
}

func TestParseSource_WrapsTokenizeError(t *testing.T) {
	t.Parallel()

	_, err := syntax.ParseSource("fn f() { \"unterminated }", "src/lib.rs")
	var pe *syntax.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want a *ParseError", err)
	}
	if pe.Path != "src/lib.rs" {
		t.Errorf("path = %q, want src/lib.rs", pe.Path)
	}
	var te *syntax.TokenizeError
	if !errors.As(err, &te) {
		t.Errorf("cause of %v is not a *TokenizeError", err)
	}
	if !strings.Contains(pe.Error(), "src/lib.rs:") {
		t.Errorf("Error() = %q, want the path prefix", pe.Error())
	}
}

func TestParse_Visibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src string
		vis string
	}{
		{"fn f() {}", ""},
		{"pub fn f() {}", "pub"},
		{"pub(crate) fn f() {}", "pub(crate)"},
		{"pub(in crate::inner) fn f() {}", "pub(in crate::inner)"},
	}
	for _, tt := range tests {
		if got := onlyDecl(t, tt.src).Vis; got != tt.vis {
			t.Errorf("Parse(%q) visibility = %q, want %q", tt.src, got, tt.vis)
		}
	}
}

func TestParse_VerbatimItems(t *testing.T) {
	t.Parallel()

	d := onlyDecl(t, "macro_rules! square { ($x:expr) => { $x * $x }; }")
	if d.Kind != syntax.DeclVerbatim {
		t.Fatalf("kind = %d, want DeclVerbatim", d.Kind)
	}
	if got := texts(d.Tokens); got[0] != "macro_rules" {
		t.Errorf("tokens = %v, want a run starting with macro_rules", got)
	}

	// An attribute on a verbatim item stays attached to it.
	d = onlyDecl(t, "#[cfg(test)]\nlazy_static! { static ref N: u32 = 1; }")
	if d.Kind != syntax.DeclVerbatim || !d.IsTestMarked() {
		t.Errorf("item macro parsed as kind=%d testMarked=%v", d.Kind, d.IsTestMarked())
	}
}

func TestParse_UnionAsIdentifier(t *testing.T) {
	t.Parallel()

	// `union` is contextual: followed by anything but a name it is a plain
	// identifier, here the start of an expression statement item macro.
	d := onlyDecl(t, "union!();")
	if d.Kind != syntax.DeclVerbatim {
		t.Errorf("kind = %d, want DeclVerbatim", d.Kind)
	}
}
