// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"github.com/rustpack/rustpack/pkg/syntax"
)

// RewritePaths shortens every qualified path whose first segment is the
// namespace name (`lib::foo::bar` becomes `foo::bar`) and drops import
// declarations rooted at the namespace, since their targets are local after
// inlining. The rewrite is total: it never fails and reaches every token run
// in the tree (bodies, type positions, attribute arguments) as well as every
// use-tree.
func RewritePaths(f *syntax.File, namespace string) {
	if namespace == "" {
		return
	}
	f.Decls = rewriteDeclList(f.Decls, namespace)
}

func rewriteDeclList(decls []*syntax.Decl, ns string) []*syntax.Decl {
	out := decls[:0]
	for _, d := range decls {
		if d.Kind == syntax.DeclUse {
			if tree := rewriteUseTree(d.Use.Tree, ns); tree == nil {
				continue // import of inlined content: redundant
			} else {
				d.Use.Tree = tree
			}
			out = append(out, d)
			continue
		}
		rewriteDecl(d, ns)
		out = append(out, d)
	}
	return out
}

// rewriteUseTree strips a leading namespace segment from the tree, returning
// nil when the whole tree pointed inside the namespace and the import must go.
func rewriteUseTree(tree *syntax.UseTree, ns string) *syntax.UseTree {
	if len(tree.Path) > 0 && tree.Path[0] == ns {
		// `use lib;` or `use lib::...;` — the content is local now.
		return nil
	}
	if tree.Group != nil {
		kept := tree.Group[:0]
		for _, sub := range tree.Group {
			if rewritten := rewriteUseTree(sub, ns); rewritten != nil {
				kept = append(kept, rewritten)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		tree.Group = kept
	}
	return tree
}

func rewriteDecl(d *syntax.Decl, ns string) {
	for i := range d.Attrs {
		d.Attrs[i].Args = rewriteRun(d.Attrs[i].Args, ns)
	}
	switch d.Kind {
	case syntax.DeclFn:
		fn := d.Fn
		fn.Generics = rewriteRun(fn.Generics, ns)
		for i := range fn.Params {
			fn.Params[i].Tokens = rewriteRun(fn.Params[i].Tokens, ns)
		}
		fn.Ret = rewriteRun(fn.Ret, ns)
		fn.Where = rewriteRun(fn.Where, ns)
		fn.Body = rewriteRun(fn.Body, ns)
	case syntax.DeclType:
		td := d.Type
		td.Generics = rewriteRun(td.Generics, ns)
		td.Where = rewriteRun(td.Where, ns)
		for i := range td.Fields {
			td.Fields[i].Tokens = rewriteRun(td.Fields[i].Tokens, ns)
		}
		for i := range td.Variants {
			v := &td.Variants[i]
			for j := range v.Fields {
				v.Fields[j].Tokens = rewriteRun(v.Fields[j].Tokens, ns)
			}
			v.Discriminant = rewriteRun(v.Discriminant, ns)
		}
	case syntax.DeclTrait:
		d.Trait.Generics = rewriteRun(d.Trait.Generics, ns)
		d.Trait.Header = rewriteRun(d.Trait.Header, ns)
		d.Trait.Items = rewriteDeclList(d.Trait.Items, ns)
	case syntax.DeclImpl:
		d.Impl.Header = rewriteRun(d.Impl.Header, ns)
		d.Impl.Items = rewriteDeclList(d.Impl.Items, ns)
	case syntax.DeclMod:
		d.Mod.Decls = rewriteDeclList(d.Mod.Decls, ns)
	case syntax.DeclAlias:
		d.Alias.Generics = rewriteRun(d.Alias.Generics, ns)
		d.Alias.Target = rewriteRun(d.Alias.Target, ns)
	case syntax.DeclConst:
		d.Const.Tokens = rewriteRun(d.Const.Tokens, ns)
	case syntax.DeclVerbatim:
		d.Tokens = rewriteRun(d.Tokens, ns)
	}
}

// rewriteRun removes `ns ::` token pairs that open a qualified path. A
// namespace identifier is the head of a path only when the token before it is
// not a path separator or a field-access dot; `other::lib::x` is untouched.
func rewriteRun(run syntax.TokenRun, ns string) syntax.TokenRun {
	if len(run) == 0 {
		return run
	}
	out := run[:0]
	for i := 0; i < len(run); i++ {
		t := run[i]
		if t.IsIdent(ns) && i+1 < len(run) && run[i+1].Is("::") {
			headPosition := len(out) == 0 || !(out[len(out)-1].Is("::") || out[len(out)-1].Is("."))
			if headPosition {
				i++ // drop the separator too
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
