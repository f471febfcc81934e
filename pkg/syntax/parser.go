// SPDX-License-Identifier: MPL-2.0

package syntax

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ParseError reports malformed input text.
	ParseError struct {
		// Path is the originating file, when known.
		Path string
		Line int
		Col  int
		Msg  string
		// Cause is the underlying error, when the failure came from lexing.
		Cause error
	}

	parser struct {
		toks []Token
		pos  int
		path string
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Col)
	if e.Path != "" {
		loc = e.Path + ":" + loc
	}
	return fmt.Sprintf("%s: parse error: %s", loc, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Cause }

// Parse parses source text into a declaration tree.
func Parse(src string) (*File, error) {
	return ParseSource(src, "")
}

// ParseSource is Parse with a path recorded on any resulting error.
func ParseSource(src, path string) (*File, error) {
	toks, err := LexFile(src, path)
	if err != nil {
		var te *TokenizeError
		if errors.As(err, &te) {
			return nil, &ParseError{Path: path, Line: te.Line, Col: te.Col, Msg: te.Msg, Cause: err}
		}
		return nil, err
	}
	p := &parser{toks: toks, path: path}
	inner, decls, err := p.parseDeclList(true)
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		t := p.cur()
		return nil, p.errorf(t, "unexpected %q at top level", t.Text)
	}
	return &File{InnerAttrs: inner, Decls: decls}, nil
}

func (p *parser) errorf(at Token, format string, args ...any) *ParseError {
	return &ParseError{Path: p.path, Line: at.Line, Col: at.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) errorEOF(what string) *ParseError {
	line, col := 0, 0
	if n := len(p.toks); n > 0 {
		line, col = p.toks[n-1].Line, p.toks[n-1].Col
	}
	return &ParseError{Path: p.path, Line: line, Col: col, Msg: "unexpected end of file, expected " + what}
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

// cur returns the current token (zero Token at EOF).
func (p *parser) cur() Token { return p.at(0) }

// at returns the token at the given lookahead offset, skipping nothing.
func (p *parser) at(offset int) Token {
	if p.pos+offset >= len(p.toks) {
		return Token{Kind: TokenPunct, Text: ""}
	}
	return p.toks[p.pos+offset]
}

func (p *parser) advance() Token {
	t := p.cur()
	p.pos++
	return t
}

// skipComments drops plain (non-doc) comments at the current position.
func (p *parser) skipComments() {
	for !p.eof() {
		k := p.cur().Kind
		if k == TokenLineComment || k == TokenBlockComment {
			p.pos++
			continue
		}
		return
	}
}

func (p *parser) expect(text string) (Token, error) {
	p.skipComments()
	if p.eof() {
		return Token{}, p.errorEOF(fmt.Sprintf("%q", text))
	}
	t := p.cur()
	if !t.Is(text) {
		return Token{}, p.errorf(t, "expected %q, found %q", text, t.Text)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent() (Token, error) {
	p.skipComments()
	if p.eof() {
		return Token{}, p.errorEOF("an identifier")
	}
	t := p.cur()
	if t.Kind != TokenIdent {
		return Token{}, p.errorf(t, "expected an identifier, found %q", t.Text)
	}
	return p.advance(), nil
}

// collectUntil gathers tokens up to (not including) one of the stop texts at
// delimiter depth zero. Nested delimited groups are carried whole. Plain
// comments are dropped; doc comments are kept in the run.
func (p *parser) collectUntil(stops ...string) (TokenRun, error) {
	var run TokenRun
	depth := 0
	for {
		if p.eof() {
			return nil, p.errorEOF(fmt.Sprintf("one of %s", strings.Join(stops, " ")))
		}
		t := p.cur()
		if t.Kind == TokenLineComment || t.Kind == TokenBlockComment {
			p.pos++
			continue
		}
		if depth == 0 {
			for _, s := range stops {
				if t.Is(s) {
					return run, nil
				}
			}
		}
		switch t.Kind {
		case TokenOpenDelim:
			depth++
		case TokenCloseDelim:
			depth--
			if depth < 0 {
				return nil, p.errorf(t, "unbalanced %q", t.Text)
			}
		}
		run = append(run, t)
		p.pos++
	}
}

// collectGroup consumes a delimited group starting at the current opening
// delimiter. The returned run includes both delimiters.
func (p *parser) collectGroup() (TokenRun, error) {
	open := p.cur()
	if open.Kind != TokenOpenDelim {
		return nil, p.errorf(open, "expected an opening delimiter, found %q", open.Text)
	}
	var run TokenRun
	depth := 0
	for {
		if p.eof() {
			return nil, p.errorEOF(fmt.Sprintf("%q", matchingDelim(open.Text)))
		}
		t := p.advance()
		if t.Kind == TokenLineComment || t.Kind == TokenBlockComment {
			continue
		}
		run = append(run, t)
		switch t.Kind {
		case TokenOpenDelim:
			depth++
		case TokenCloseDelim:
			depth--
			if depth == 0 {
				return run, nil
			}
		}
	}
}

// collectAngles consumes a generics run starting at `<`, tracking angle
// nesting with the merged `<<` / `>>` forms counted double. The run includes
// the angle brackets themselves.
func (p *parser) collectAngles() (TokenRun, error) {
	var run TokenRun
	depth := 0
	for {
		if p.eof() {
			return nil, p.errorEOF("\">\"")
		}
		t := p.cur()
		switch {
		case t.Kind == TokenLineComment || t.Kind == TokenBlockComment:
			p.pos++
			continue
		case t.Kind == TokenOpenDelim:
			group, err := p.collectGroup()
			if err != nil {
				return nil, err
			}
			run = append(run, group...)
			continue
		case t.Is("<"):
			depth++
		case t.Is("<<"):
			depth += 2
		case t.Is(">"):
			depth--
		case t.Is(">>"):
			depth -= 2
		}
		run = append(run, t)
		p.pos++
		if depth <= 0 {
			return run, nil
		}
	}
}

// maybeGenerics consumes a generics run when the current token opens one.
func (p *parser) maybeGenerics() (TokenRun, error) {
	p.skipComments()
	if !p.eof() && p.cur().Is("<") {
		return p.collectAngles()
	}
	return nil, nil
}

// parseDeclList parses declarations until EOF (top level) or a closing brace
// (module, trait and impl bodies). Inner attributes are collected into the
// first return value when allowInner is set.
func (p *parser) parseDeclList(allowInner bool) ([]Attr, []*Decl, error) {
	var inner []Attr
	var decls []*Decl
	for {
		p.skipComments()
		if p.eof() || p.cur().Is("}") {
			return inner, decls, nil
		}
		t := p.cur()
		if allowInner && (t.Kind == TokenInnerDocComment || (t.Is("#") && p.at(1).Is("!"))) {
			attr, err := p.parseAttr()
			if err != nil {
				return nil, nil, err
			}
			inner = append(inner, attr)
			continue
		}
		d, err := p.parseDecl()
		if err != nil {
			return nil, nil, err
		}
		decls = append(decls, d)
	}
}

// parseAttr parses one attribute or doc comment at the current position.
func (p *parser) parseAttr() (Attr, error) {
	t := p.cur()
	switch t.Kind {
	case TokenDocComment:
		p.pos++
		return docCommentAttr(t, false), nil
	case TokenInnerDocComment:
		p.pos++
		return docCommentAttr(t, true), nil
	}
	if _, err := p.expect("#"); err != nil {
		return Attr{}, err
	}
	attr := Attr{}
	if p.cur().Is("!") {
		attr.Inner = true
		p.advance()
	}
	if _, err := p.expect("["); err != nil {
		return Attr{}, err
	}
	// Attribute path: ident (:: ident)*.
	name, err := p.expectIdent()
	if err != nil {
		return Attr{}, err
	}
	segs := []string{name.Text}
	for p.cur().Is("::") {
		p.advance()
		seg, err := p.expectIdent()
		if err != nil {
			return Attr{}, err
		}
		segs = append(segs, seg.Text)
	}
	attr.Name = strings.Join(segs, "::")
	args, err := p.collectUntil("]")
	if err != nil {
		return Attr{}, err
	}
	attr.Args = args
	if _, err := p.expect("]"); err != nil {
		return Attr{}, err
	}
	return attr, nil
}

// docCommentAttr normalizes a doc comment token to a doc annotation.
func docCommentAttr(t Token, inner bool) Attr {
	text := t.Text
	block := false
	switch {
	case strings.HasPrefix(text, "///"):
		text = strings.TrimPrefix(text, "///")
	case strings.HasPrefix(text, "//!"):
		text = strings.TrimPrefix(text, "//!")
	case strings.HasPrefix(text, "/**"):
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
		block = true
	case strings.HasPrefix(text, "/*!"):
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/*!"), "*/")
		block = true
	}
	return Attr{Inner: inner, Name: "doc", Doc: text, Block: block}
}

// parseOuterAttrs collects doc comments and `#[...]` attributes preceding a
// declaration or member.
func (p *parser) parseOuterAttrs() ([]Attr, error) {
	var attrs []Attr
	for {
		p.skipComments()
		if p.eof() {
			return attrs, nil
		}
		t := p.cur()
		if t.Kind == TokenDocComment || (t.Is("#") && p.at(1).Is("[")) {
			attr, err := p.parseAttr()
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, attr)
			continue
		}
		return attrs, nil
	}
}

// fnQualifiers looks ahead for a function qualifier run (`const`, `async`,
// `unsafe`, `extern "abi"`) ending at `fn`. It reports the qualifier length
// in tokens, or ok=false when the current position is not a function.
func (p *parser) fnQualifiers() (int, bool) {
	i := 0
	for {
		t := p.at(i)
		if t.Kind != TokenIdent {
			return 0, false
		}
		switch t.Text {
		case "fn":
			return i, true
		case "const", "async", "unsafe":
			i++
		case "extern":
			i++
			if p.at(i).Kind == TokenString {
				i++
			}
		default:
			return 0, false
		}
	}
}

func (p *parser) parseDecl() (*Decl, error) {
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	vis, err := p.parseVisibility()
	if err != nil {
		return nil, err
	}

	p.skipComments()
	if p.eof() {
		return nil, p.errorEOF("a declaration")
	}
	t := p.cur()

	if n, ok := p.fnQualifiers(); ok {
		quals := make(TokenRun, 0, n)
		for i := 0; i < n; i++ {
			quals = append(quals, p.advance())
		}
		return p.parseFn(attrs, vis, quals)
	}

	if t.Kind == TokenIdent {
		switch t.Text {
		case "struct", "enum", "union":
			if t.Text == "union" && p.at(1).Kind != TokenIdent {
				break // `union` used as a plain identifier
			}
			return p.parseType(attrs, vis)
		case "trait":
			return p.parseTrait(attrs, vis, false)
		case "impl":
			return p.parseImpl(attrs, vis, false)
		case "unsafe":
			switch p.at(1).Text {
			case "impl":
				p.advance()
				return p.parseImpl(attrs, vis, true)
			case "trait":
				p.advance()
				return p.parseTrait(attrs, vis, true)
			}
		case "mod":
			return p.parseMod(attrs, vis)
		case "use":
			return p.parseUse(attrs, vis)
		case "type":
			return p.parseAlias(attrs, vis)
		case "const", "static":
			return p.parseConst(attrs, vis)
		case "extern":
			if p.at(1).IsIdent("crate") {
				return p.parseExternCrate(attrs, vis)
			}
		}
	}
	return p.parseVerbatim(attrs, vis)
}

// parseVisibility consumes an optional `pub` / `pub(...)` prefix and returns
// it as verbatim text.
func (p *parser) parseVisibility() (string, error) {
	p.skipComments()
	if p.eof() || !p.cur().IsIdent("pub") {
		return "", nil
	}
	p.advance()
	if p.eof() || !p.cur().Is("(") {
		return "pub", nil
	}
	group, err := p.collectGroup()
	if err != nil {
		return "", err
	}
	return "pub" + runString(group), nil
}

func (p *parser) parseFn(attrs []Attr, vis string, quals TokenRun) (*Decl, error) {
	p.skipComments()
	if p.eof() || !p.cur().IsIdent("fn") {
		return nil, p.errorf(p.cur(), "expected \"fn\", found %q", p.cur().Text)
	}
	p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	fn := &FnDecl{Qualifiers: quals}
	if fn.Generics, err = p.maybeGenerics(); err != nil {
		return nil, err
	}
	if fn.Params, err = p.parseParams(); err != nil {
		return nil, err
	}
	p.skipComments()
	if p.cur().Is("->") {
		p.advance()
		if fn.Ret, err = p.collectUntilKeywordOr("where", "{", ";"); err != nil {
			return nil, err
		}
	}
	p.skipComments()
	if p.cur().IsIdent("where") {
		p.advance()
		if fn.Where, err = p.collectUntil("{", ";"); err != nil {
			return nil, err
		}
	}
	p.skipComments()
	if p.eof() {
		return nil, p.errorEOF("a function body or \";\"")
	}
	if p.cur().Is(";") {
		p.advance()
	} else {
		body, err := p.collectGroup()
		if err != nil {
			return nil, err
		}
		fn.Body = body[1 : len(body)-1]
		fn.HasBody = true
	}
	return &Decl{Kind: DeclFn, Attrs: attrs, Vis: vis, Name: name.Text, Fn: fn}, nil
}

// collectUntilKeywordOr is collectUntil that additionally stops before the
// given identifier keyword at depth zero.
func (p *parser) collectUntilKeywordOr(keyword string, stops ...string) (TokenRun, error) {
	var run TokenRun
	depth := 0
	for {
		if p.eof() {
			return nil, p.errorEOF(fmt.Sprintf("one of %s", strings.Join(stops, " ")))
		}
		t := p.cur()
		if t.Kind == TokenLineComment || t.Kind == TokenBlockComment {
			p.pos++
			continue
		}
		if depth == 0 {
			if t.IsIdent(keyword) {
				return run, nil
			}
			for _, s := range stops {
				if t.Is(s) {
					return run, nil
				}
			}
		}
		switch t.Kind {
		case TokenOpenDelim:
			depth++
		case TokenCloseDelim:
			depth--
			if depth < 0 {
				return nil, p.errorf(t, "unbalanced %q", t.Text)
			}
		}
		run = append(run, t)
		p.pos++
	}
}

// parseParams parses a parenthesized parameter list into members with their
// own annotation lists.
func (p *parser) parseParams() ([]Param, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []Param
	for {
		p.skipComments()
		if p.eof() {
			return nil, p.errorEOF("\")\"")
		}
		if p.cur().Is(")") {
			p.advance()
			return params, nil
		}
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		tokens, err := p.collectUntil(",", ")")
		if err != nil {
			return nil, err
		}
		if len(tokens) > 0 || len(attrs) > 0 {
			params = append(params, Param{Attrs: attrs, Tokens: tokens})
		}
		if p.cur().Is(",") {
			p.advance()
		}
	}
}

func (p *parser) parseType(attrs []Attr, vis string) (*Decl, error) {
	keyword := p.advance() // struct / enum / union
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	td := &TypeDecl{Keyword: keyword.Text}
	if td.Generics, err = p.maybeGenerics(); err != nil {
		return nil, err
	}
	decl := &Decl{Kind: DeclType, Attrs: attrs, Vis: vis, Name: name.Text, Type: td}

	p.skipComments()
	switch {
	case keyword.Text == "enum":
		if p.cur().IsIdent("where") {
			p.advance()
			if td.Where, err = p.collectUntil("{"); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect("{"); err != nil {
			return nil, err
		}
		if td.Variants, err = p.parseVariants(); err != nil {
			return nil, err
		}
		return decl, nil

	case p.cur().Is(";"):
		p.advance()
		td.Unit = true
		return decl, nil

	case p.cur().Is("("):
		td.Tuple = true
		if td.Fields, err = p.parseTupleFields(); err != nil {
			return nil, err
		}
		p.skipComments()
		if p.cur().IsIdent("where") {
			p.advance()
			if td.Where, err = p.collectUntil(";"); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return decl, nil

	default:
		if p.cur().IsIdent("where") {
			p.advance()
			if td.Where, err = p.collectUntil("{", ";"); err != nil {
				return nil, err
			}
			if p.cur().Is(";") {
				p.advance()
				td.Unit = true
				return decl, nil
			}
		}
		if _, err := p.expect("{"); err != nil {
			return nil, err
		}
		if td.Fields, err = p.parseNamedFields(); err != nil {
			return nil, err
		}
		return decl, nil
	}
}

// parseNamedFields parses `field: Type,` members until the closing brace.
func (p *parser) parseNamedFields() ([]Field, error) {
	var fields []Field
	for {
		p.skipComments()
		if p.eof() {
			return nil, p.errorEOF("\"}\"")
		}
		if p.cur().Is("}") {
			p.advance()
			return fields, nil
		}
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		tokens, err := p.collectUntil(",", "}")
		if err != nil {
			return nil, err
		}
		if len(tokens) > 0 || len(attrs) > 0 {
			fields = append(fields, Field{Attrs: attrs, Tokens: tokens})
		}
		if p.cur().Is(",") {
			p.advance()
		}
	}
}

// parseTupleFields parses parenthesized tuple elements as members.
func (p *parser) parseTupleFields() ([]Field, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var fields []Field
	for {
		p.skipComments()
		if p.eof() {
			return nil, p.errorEOF("\")\"")
		}
		if p.cur().Is(")") {
			p.advance()
			return fields, nil
		}
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		tokens, err := p.collectUntil(",", ")")
		if err != nil {
			return nil, err
		}
		if len(tokens) > 0 || len(attrs) > 0 {
			fields = append(fields, Field{Attrs: attrs, Tokens: tokens})
		}
		if p.cur().Is(",") {
			p.advance()
		}
	}
}

func (p *parser) parseVariants() ([]Variant, error) {
	var variants []Variant
	for {
		p.skipComments()
		if p.eof() {
			return nil, p.errorEOF("\"}\"")
		}
		if p.cur().Is("}") {
			p.advance()
			return variants, nil
		}
		attrs, err := p.parseOuterAttrs()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		v := Variant{Attrs: attrs, Name: name.Text}
		p.skipComments()
		switch {
		case p.cur().Is("("):
			v.Tuple = true
			if v.Fields, err = p.parseTupleFields(); err != nil {
				return nil, err
			}
		case p.cur().Is("{"):
			p.advance()
			if v.Fields, err = p.parseNamedFields(); err != nil {
				return nil, err
			}
		case p.cur().Is("="):
			p.advance()
			if v.Discriminant, err = p.collectUntil(",", "}"); err != nil {
				return nil, err
			}
		}
		variants = append(variants, v)
		p.skipComments()
		if p.cur().Is(",") {
			p.advance()
		}
	}
}

func (p *parser) parseTrait(attrs []Attr, vis string, unsafe bool) (*Decl, error) {
	p.advance() // trait
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	tr := &TraitDecl{}
	if tr.Generics, err = p.maybeGenerics(); err != nil {
		return nil, err
	}
	if tr.Header, err = p.collectUntil("{"); err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	_, items, err := p.parseDeclList(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	tr.Items = items
	tr.Unsafe = unsafe
	return &Decl{Kind: DeclTrait, Attrs: attrs, Vis: vis, Name: name.Text, Trait: tr}, nil
}

func (p *parser) parseImpl(attrs []Attr, vis string, unsafe bool) (*Decl, error) {
	p.advance() // impl
	im := &ImplDecl{Unsafe: unsafe}
	var err error
	if im.Header, err = p.collectUntil("{"); err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	_, items, err := p.parseDeclList(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	im.Items = items
	return &Decl{Kind: DeclImpl, Attrs: attrs, Vis: vis, Impl: im}, nil
}

func (p *parser) parseMod(attrs []Attr, vis string) (*Decl, error) {
	p.advance() // mod
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	md := &ModDecl{}
	decl := &Decl{Kind: DeclMod, Attrs: attrs, Vis: vis, Name: name.Text, Mod: md}
	p.skipComments()
	if p.cur().Is(";") {
		p.advance()
		return decl, nil
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	inner, decls, err := p.parseDeclList(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	md.Inline = true
	md.InnerAttrs = inner
	md.Decls = decls
	return decl, nil
}

func (p *parser) parseUse(attrs []Attr, vis string) (*Decl, error) {
	p.advance() // use
	ud := &UseDecl{}
	p.skipComments()
	if p.cur().Is("::") {
		ud.Leading = true
		p.advance()
	}
	tree, err := p.parseUseTree()
	if err != nil {
		return nil, err
	}
	ud.Tree = tree
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	name := ""
	if len(tree.Path) > 0 {
		name = tree.Path[0]
	}
	return &Decl{Kind: DeclUse, Attrs: attrs, Vis: vis, Name: name, Use: ud}, nil
}

func (p *parser) parseUseTree() (*UseTree, error) {
	tree := &UseTree{}
	p.skipComments()
	if p.cur().Is("{") {
		group, err := p.parseUseGroup()
		if err != nil {
			return nil, err
		}
		tree.Group = group
		return tree, nil
	}
	for {
		p.skipComments()
		t := p.cur()
		switch {
		case t.Is("*"):
			p.advance()
			tree.Glob = true
			return tree, nil
		case t.Is("{"):
			group, err := p.parseUseGroup()
			if err != nil {
				return nil, err
			}
			tree.Group = group
			return tree, nil
		case t.Kind == TokenIdent:
			p.advance()
			tree.Path = append(tree.Path, t.Text)
		default:
			return nil, p.errorf(t, "expected a path segment, found %q", t.Text)
		}
		p.skipComments()
		if p.cur().Is("::") {
			p.advance()
			continue
		}
		if p.cur().IsIdent("as") {
			p.advance()
			rename, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			tree.Rename = rename.Text
		}
		return tree, nil
	}
}

func (p *parser) parseUseGroup() ([]*UseTree, error) {
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	var group []*UseTree
	for {
		p.skipComments()
		if p.eof() {
			return nil, p.errorEOF("\"}\"")
		}
		if p.cur().Is("}") {
			p.advance()
			return group, nil
		}
		tree, err := p.parseUseTree()
		if err != nil {
			return nil, err
		}
		group = append(group, tree)
		p.skipComments()
		if p.cur().Is(",") {
			p.advance()
		}
	}
}

func (p *parser) parseAlias(attrs []Attr, vis string) (*Decl, error) {
	p.advance() // type
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	al := &AliasDecl{}
	if al.Generics, err = p.maybeGenerics(); err != nil {
		return nil, err
	}
	if al.Target, err = p.collectUntil(";"); err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &Decl{Kind: DeclAlias, Attrs: attrs, Vis: vis, Name: name.Text, Alias: al}, nil
}

func (p *parser) parseConst(attrs []Attr, vis string) (*Decl, error) {
	keyword := p.advance() // const / static
	cd := &ConstDecl{Keyword: keyword.Text}
	p.skipComments()
	if p.cur().IsIdent("mut") {
		cd.Mut = true
		p.advance()
	}
	tok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	name := tok.Text
	tokens, err := p.collectUntil(";")
	if err != nil {
		return nil, err
	}
	cd.Tokens = tokens
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &Decl{Kind: DeclConst, Attrs: attrs, Vis: vis, Name: name, Const: cd}, nil
}

func (p *parser) parseExternCrate(attrs []Attr, vis string) (*Decl, error) {
	p.advance() // extern
	p.advance() // crate
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	ec := &ExternCrateDecl{}
	p.skipComments()
	if p.cur().IsIdent("as") {
		p.advance()
		rename, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ec.Rename = rename.Text
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &Decl{Kind: DeclExternCrate, Attrs: attrs, Vis: vis, Name: name.Text, Extern: ec}, nil
}

// parseVerbatim consumes an item the parser does not model: everything up to
// a `;` at depth zero, or through a brace group at depth zero (macro
// definitions, item macros, extern blocks).
func (p *parser) parseVerbatim(attrs []Attr, vis string) (*Decl, error) {
	var run TokenRun
	for {
		p.skipComments()
		if p.eof() {
			return nil, p.errorEOF("\";\" or a braced block")
		}
		t := p.cur()
		if t.Is(";") {
			run = append(run, p.advance())
			return &Decl{Kind: DeclVerbatim, Attrs: attrs, Vis: vis, Tokens: run}, nil
		}
		if t.Kind == TokenOpenDelim {
			group, err := p.collectGroup()
			if err != nil {
				return nil, err
			}
			run = append(run, group...)
			if t.Is("{") {
				return &Decl{Kind: DeclVerbatim, Attrs: attrs, Vis: vis, Tokens: run}, nil
			}
			continue
		}
		if t.Kind == TokenCloseDelim {
			return nil, p.errorf(t, "unbalanced %q", t.Text)
		}
		run = append(run, p.advance())
	}
}
