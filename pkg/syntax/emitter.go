// SPDX-License-Identifier: MPL-2.0

package syntax

import (
	"strings"
)

// Emit serializes a declaration tree back to source text. Item structure is
// laid out one declaration per line (members indented); token runs are
// written with conservative spacing that never merges two tokens into a
// different one. Emit(Parse(Emit(f))) is stable: re-parsing emitted text and
// emitting again yields identical output.
func Emit(f *File) string {
	var sb strings.Builder
	for _, a := range f.InnerAttrs {
		writeAttr(&sb, a, "")
	}
	if len(f.InnerAttrs) > 0 && len(f.Decls) > 0 {
		sb.WriteString("\n")
	}
	for i, d := range f.Decls {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeDecl(&sb, d, "")
	}
	return sb.String()
}

const indentUnit = "    "

// noSpaceAfter lists token texts that never need a space after them.
var noSpaceAfter = map[string]bool{
	".": true, "::": true, "(": true, "[": true, "#": true, "!": true, "$": true,
}

// noSpaceBefore lists token texts that never need a space before them.
var noSpaceBefore = map[string]bool{
	",": true, ";": true, ".": true, "::": true, ")": true, "]": true,
	"?": true, "!": true, "(": true, "[": true,
}

// writeRun writes a token run with conservative spacing. Line-form doc
// comments inside a run are followed by a newline so they cannot swallow the
// tokens after them.
func writeRun(sb *strings.Builder, run TokenRun) {
	prev := ""
	prevWasLineComment := false
	for _, t := range run {
		if len(prev) > 0 {
			if prevWasLineComment {
				sb.WriteString("\n")
			} else if !noSpaceAfter[prev] && !noSpaceBefore[t.Text] {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(t.Text)
		prev = t.Text
		prevWasLineComment = t.IsComment() && strings.HasPrefix(t.Text, "//")
	}
}

func runString(run TokenRun) string {
	var sb strings.Builder
	writeRun(&sb, run)
	return sb.String()
}

func writeAttr(sb *strings.Builder, a Attr, indent string) {
	sb.WriteString(indent)
	if a.Name == "doc" && a.Doc != "" || a.Name == "doc" && len(a.Args) == 0 {
		switch {
		case a.Block && a.Inner:
			sb.WriteString("/*!" + a.Doc + "*/")
		case a.Block:
			sb.WriteString("/**" + a.Doc + "*/")
		case a.Inner:
			sb.WriteString("//!" + a.Doc)
		default:
			sb.WriteString("///" + a.Doc)
		}
		sb.WriteString("\n")
		return
	}
	if a.Inner {
		sb.WriteString("#![")
	} else {
		sb.WriteString("#[")
	}
	sb.WriteString(a.Name)
	if len(a.Args) > 0 {
		if !a.Args[0].Is("(") && !a.Args[0].Is("[") {
			sb.WriteString(" ")
		}
		writeRun(sb, a.Args)
	}
	sb.WriteString("]\n")
}

func writeAttrs(sb *strings.Builder, attrs []Attr, indent string) {
	for _, a := range attrs {
		writeAttr(sb, a, indent)
	}
}

// writePrefix writes attributes, indentation and visibility for a declaration.
func writePrefix(sb *strings.Builder, d *Decl, indent string) {
	writeAttrs(sb, d.Attrs, indent)
	sb.WriteString(indent)
	if d.Vis != "" {
		sb.WriteString(d.Vis)
		sb.WriteString(" ")
	}
}

func writeDecl(sb *strings.Builder, d *Decl, indent string) {
	switch d.Kind {
	case DeclFn:
		writeFn(sb, d, indent)
	case DeclType:
		writeType(sb, d, indent)
	case DeclTrait:
		writeTrait(sb, d, indent)
	case DeclImpl:
		writeImpl(sb, d, indent)
	case DeclMod:
		writeMod(sb, d, indent)
	case DeclUse:
		writeUse(sb, d, indent)
	case DeclAlias:
		writePrefix(sb, d, indent)
		sb.WriteString("type " + d.Name)
		writeRunPart(sb, d.Alias.Generics)
		writeRunPart(sb, d.Alias.Target)
		sb.WriteString(";\n")
	case DeclConst:
		writePrefix(sb, d, indent)
		sb.WriteString(d.Const.Keyword)
		if d.Const.Mut {
			sb.WriteString(" mut")
		}
		sb.WriteString(" " + d.Name)
		writeRunPart(sb, d.Const.Tokens)
		sb.WriteString(";\n")
	case DeclExternCrate:
		writePrefix(sb, d, indent)
		sb.WriteString("extern crate " + d.Name)
		if d.Extern.Rename != "" {
			sb.WriteString(" as " + d.Extern.Rename)
		}
		sb.WriteString(";\n")
	case DeclVerbatim:
		writeAttrs(sb, d.Attrs, indent)
		sb.WriteString(indent)
		if d.Vis != "" {
			sb.WriteString(d.Vis + " ")
		}
		writeRun(sb, d.Tokens)
		sb.WriteString("\n")
	}
}

// writeRunPart writes a space followed by the run, when the run is non-empty.
func writeRunPart(sb *strings.Builder, run TokenRun) {
	if len(run) == 0 {
		return
	}
	sb.WriteString(" ")
	writeRun(sb, run)
}

func writeFn(sb *strings.Builder, d *Decl, indent string) {
	writePrefix(sb, d, indent)
	fn := d.Fn
	for _, q := range fn.Qualifiers {
		sb.WriteString(q.Text + " ")
	}
	sb.WriteString("fn " + d.Name)
	if len(fn.Generics) > 0 {
		writeRun(sb, fn.Generics)
	}
	sb.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		for _, a := range param.Attrs {
			writeParamAttr(sb, a)
		}
		writeRun(sb, param.Tokens)
	}
	sb.WriteString(")")
	if len(fn.Ret) > 0 {
		sb.WriteString(" -> ")
		writeRun(sb, fn.Ret)
	}
	if len(fn.Where) > 0 {
		sb.WriteString(" where ")
		writeRun(sb, fn.Where)
	}
	if !fn.HasBody {
		sb.WriteString(";\n")
		return
	}
	sb.WriteString(" { ")
	writeRun(sb, fn.Body)
	sb.WriteString(" }\n")
}

// writeParamAttr writes a member attribute inline (no trailing newline).
func writeParamAttr(sb *strings.Builder, a Attr) {
	var tmp strings.Builder
	writeAttr(&tmp, a, "")
	text := strings.TrimSuffix(tmp.String(), "\n")
	// Doc comments in line form cannot be written inline.
	if strings.HasPrefix(text, "//") {
		text = "/**" + strings.TrimPrefix(strings.TrimPrefix(text, "///"), "//!") + "*/"
	}
	sb.WriteString(text)
	sb.WriteString(" ")
}

func writeType(sb *strings.Builder, d *Decl, indent string) {
	writePrefix(sb, d, indent)
	td := d.Type
	sb.WriteString(td.Keyword + " " + d.Name)
	if len(td.Generics) > 0 {
		writeRun(sb, td.Generics)
	}
	switch {
	case td.Keyword == "enum":
		if len(td.Where) > 0 {
			sb.WriteString(" where ")
			writeRun(sb, td.Where)
		}
		sb.WriteString(" {\n")
		for _, v := range td.Variants {
			writeVariant(sb, v, indent+indentUnit)
		}
		sb.WriteString(indent + "}\n")
	case td.Unit:
		if len(td.Where) > 0 {
			sb.WriteString(" where ")
			writeRun(sb, td.Where)
		}
		sb.WriteString(";\n")
	case td.Tuple:
		sb.WriteString("(")
		for i, f := range td.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			for _, a := range f.Attrs {
				writeParamAttr(sb, a)
			}
			writeRun(sb, f.Tokens)
		}
		sb.WriteString(")")
		if len(td.Where) > 0 {
			sb.WriteString(" where ")
			writeRun(sb, td.Where)
		}
		sb.WriteString(";\n")
	default:
		if len(td.Where) > 0 {
			sb.WriteString(" where ")
			writeRun(sb, td.Where)
		}
		sb.WriteString(" {\n")
		for _, f := range td.Fields {
			writeAttrs(sb, f.Attrs, indent+indentUnit)
			sb.WriteString(indent + indentUnit)
			writeRun(sb, f.Tokens)
			sb.WriteString(",\n")
		}
		sb.WriteString(indent + "}\n")
	}
}

func writeVariant(sb *strings.Builder, v Variant, indent string) {
	writeAttrs(sb, v.Attrs, indent)
	sb.WriteString(indent + v.Name)
	switch {
	case v.Tuple:
		sb.WriteString("(")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			for _, a := range f.Attrs {
				writeParamAttr(sb, a)
			}
			writeRun(sb, f.Tokens)
		}
		sb.WriteString(")")
	case len(v.Fields) > 0:
		sb.WriteString(" {\n")
		for _, f := range v.Fields {
			writeAttrs(sb, f.Attrs, indent+indentUnit)
			sb.WriteString(indent + indentUnit)
			writeRun(sb, f.Tokens)
			sb.WriteString(",\n")
		}
		sb.WriteString(indent + "}")
	case len(v.Discriminant) > 0:
		sb.WriteString(" = ")
		writeRun(sb, v.Discriminant)
	}
	sb.WriteString(",\n")
}

func writeTrait(sb *strings.Builder, d *Decl, indent string) {
	writePrefix(sb, d, indent)
	tr := d.Trait
	if tr.Unsafe {
		sb.WriteString("unsafe ")
	}
	sb.WriteString("trait " + d.Name)
	if len(tr.Generics) > 0 {
		writeRun(sb, tr.Generics)
	}
	writeRunPart(sb, tr.Header)
	sb.WriteString(" {\n")
	for _, item := range tr.Items {
		writeDecl(sb, item, indent+indentUnit)
	}
	sb.WriteString(indent + "}\n")
}

func writeImpl(sb *strings.Builder, d *Decl, indent string) {
	writePrefix(sb, d, indent)
	im := d.Impl
	if im.Unsafe {
		sb.WriteString("unsafe ")
	}
	sb.WriteString("impl")
	writeRunPart(sb, im.Header)
	sb.WriteString(" {\n")
	for _, item := range im.Items {
		writeDecl(sb, item, indent+indentUnit)
	}
	sb.WriteString(indent + "}\n")
}

func writeMod(sb *strings.Builder, d *Decl, indent string) {
	writePrefix(sb, d, indent)
	sb.WriteString("mod " + d.Name)
	if !d.Mod.Inline {
		sb.WriteString(";\n")
		return
	}
	sb.WriteString(" {\n")
	writeAttrs(sb, d.Mod.InnerAttrs, indent+indentUnit)
	for _, item := range d.Mod.Decls {
		writeDecl(sb, item, indent+indentUnit)
	}
	sb.WriteString(indent + "}\n")
}

func writeUse(sb *strings.Builder, d *Decl, indent string) {
	writePrefix(sb, d, indent)
	sb.WriteString("use ")
	if d.Use.Leading {
		sb.WriteString("::")
	}
	writeUseTree(sb, d.Use.Tree)
	sb.WriteString(";\n")
}

func writeUseTree(sb *strings.Builder, tree *UseTree) {
	sb.WriteString(tree.Path.String())
	switch {
	case tree.Group != nil:
		if len(tree.Path) > 0 {
			sb.WriteString("::")
		}
		sb.WriteString("{")
		for i, sub := range tree.Group {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeUseTree(sb, sub)
		}
		sb.WriteString("}")
	case tree.Glob:
		if len(tree.Path) > 0 {
			sb.WriteString("::")
		}
		sb.WriteString("*")
	case tree.Rename != "":
		sb.WriteString(" as " + tree.Rename)
	}
}
