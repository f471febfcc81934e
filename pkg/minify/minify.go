// SPDX-License-Identifier: MPL-2.0

// Package minify collapses Rust source text onto a single line with the
// minimum whitespace needed to keep the token stream unambiguous. String and
// character literal contents are always reproduced byte for byte; only the
// whitespace between tokens is rewritten. It operates on re-lexed token
// streams, so it works on arbitrary source text, not just bundler output.
package minify

import (
	"strings"

	"github.com/rustpack/rustpack/pkg/syntax"
)

const (
	classNone tokenClass = iota
	classIdent
	classLiteral
	classOpen
	classClose
	classSeparator
	classColon
	classPathSep
	classBang
	classOperator
	classDot
	classOther
)

type (
	// Options selects the spacing policy.
	Options struct {
		// Aggressive additionally strips the spacing the default policy
		// keeps around operators and colons, leaving spaces only where two
		// tokens would otherwise fuse into a different token.
		Aggressive bool
	}

	// tokenClass is the minifier's classification of a lexical token, the
	// axis of the spacing lookup.
	tokenClass int

	// node is one entry of the grouped token stream: either a leaf token or
	// a bracketed sub-stream carried with its delimiter pair.
	node struct {
		tok      syntax.Token
		children []node
		open     string
		isGroup  bool
	}

	writer struct {
		sb         strings.Builder
		prev       tokenClass
		aggressive bool
	}
)

// spacingKeywords are the keywords after which a following token always gets
// a separating space, whatever its class says. The check applies only when
// the emitted text ends with the keyword at an identifier boundary.
var spacingKeywords = []string{
	"as", "async", "await", "break", "const", "continue", "crate", "dyn",
	"else", "enum", "extern", "fn", "for", "if", "impl", "in", "let", "loop",
	"match", "mod", "move", "mut", "pub", "ref", "return", "static", "struct",
	"super", "trait", "type", "union", "unsafe", "use", "where", "while",
}

// Minify rewrites text onto a single line. It fails with a
// *syntax.TokenizeError when the text cannot be lexed.
func Minify(text string, opts Options) (string, error) {
	toks, err := syntax.Lex(text)
	if err != nil {
		return "", err
	}
	w := &writer{aggressive: opts.Aggressive}
	// A stray closer (unbalanced input) pops out of group with the rest of
	// the stream; it is written as a plain leaf and grouping resumes, so
	// nothing is ever silently dropped.
	for len(toks) > 0 {
		nodes, rest := group(toks)
		w.writeNodes(nodes)
		if len(rest) == 0 {
			break
		}
		w.writeToken(classClose, rest[0].Text)
		toks = rest[1:]
	}
	return stripDocAttrs(w.sb.String()), nil
}

// group nests a flat token stream into bracketed sub-streams. Comments are
// dropped; everything else is preserved. A closing delimiter ends the current
// group and is returned at the head of the remainder.
func group(toks []syntax.Token) ([]node, []syntax.Token) {
	var nodes []node
	for len(toks) > 0 {
		t := toks[0]
		toks = toks[1:]
		if t.IsComment() {
			continue
		}
		switch t.Kind {
		case syntax.TokenOpenDelim:
			children, rest := group(toks)
			if len(rest) > 0 && rest[0].Kind == syntax.TokenCloseDelim {
				rest = rest[1:]
			}
			nodes = append(nodes, node{open: t.Text, children: children, isGroup: true})
			toks = rest
		case syntax.TokenCloseDelim:
			return nodes, append([]syntax.Token{t}, toks...)
		default:
			nodes = append(nodes, node{tok: t})
		}
	}
	return nodes, nil
}

// classify maps a token to its spacing class.
func classify(t syntax.Token) tokenClass {
	switch t.Kind {
	case syntax.TokenIdent, syntax.TokenLifetime:
		return classIdent
	case syntax.TokenNumber, syntax.TokenString, syntax.TokenChar:
		return classLiteral
	case syntax.TokenOpenDelim:
		return classOpen
	case syntax.TokenCloseDelim:
		return classClose
	}
	switch t.Text {
	case ",", ";":
		return classSeparator
	case ":":
		return classColon
	case "::":
		return classPathSep
	case "!":
		return classBang
	case ".":
		return classDot
	case "#", "?", "@", "$", "~", "'":
		return classOther
	default:
		return classOperator
	}
}

func (w *writer) writeNodes(nodes []node) {
	for _, n := range nodes {
		if n.isGroup {
			w.writeToken(classOpen, n.open)
			w.writeNodes(n.children)
			w.writeToken(classClose, matchingClose(n.open))
			continue
		}
		w.writeToken(classify(n.tok), n.tok.Text)
	}
}

// writeToken appends one token, preceded by a space exactly when the spacing
// table over (previous class, current class) requires one, or when the
// already-emitted text ends in a spacing keyword.
func (w *writer) writeToken(class tokenClass, text string) {
	if w.needSpace(class) {
		w.sb.WriteString(" ")
	}
	w.sb.WriteString(text)
	w.prev = class
}

func (w *writer) needSpace(cur tokenClass) bool {
	if w.prev == classNone {
		return false
	}
	// Delimiters, separators, dots and bangs never need a leading space,
	// and nothing needs one right after an opening delimiter or a path
	// separator.
	switch cur {
	case classClose, classSeparator, classDot, classBang, classPathSep:
		return false
	}
	switch w.prev {
	case classOpen, classPathSep, classDot, classBang:
		return false
	}
	switch {
	case w.prev == classIdent && cur == classIdent,
		w.prev == classIdent && cur == classLiteral,
		w.prev == classLiteral && cur == classIdent,
		w.prev == classLiteral && cur == classLiteral:
		return true
	case cur == classOperator && w.prev == classOperator:
		// `& &x` must not fuse into `&&x`.
		return true
	case cur == classOperator:
		if w.aggressive {
			return false
		}
		// Unary position: right after an open delimiter, a separator,
		// another operator, or a colon (the open/operator cases returned
		// above already).
		switch w.prev {
		case classSeparator, classColon:
			return false
		}
		return true
	case cur == classColon || w.prev == classColon:
		return false
	case w.prev == classOperator, w.prev == classSeparator:
		return false
	}
	return w.endsWithKeyword()
}

// endsWithKeyword reports whether the emitted text ends in one of the
// spacing keywords at an identifier boundary (so `xreturn` does not count).
func (w *writer) endsWithKeyword() bool {
	text := w.sb.String()
	for _, kw := range spacingKeywords {
		if !strings.HasSuffix(text, kw) {
			continue
		}
		boundary := len(text) - len(kw) - 1
		if boundary < 0 {
			return true
		}
		c := text[boundary]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return true
		}
	}
	return false
}

func matchingClose(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	default:
		return "}"
	}
}
