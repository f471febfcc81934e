// SPDX-License-Identifier: MPL-2.0

package syntax

import "fmt"

const (
	// TokenIdent is an identifier or keyword (`fn`, `main`, `x2`).
	TokenIdent TokenKind = iota
	// TokenLifetime is a lifetime marker (`'a`, `'static`).
	TokenLifetime
	// TokenNumber is an integer or float literal, including suffixes (`42`, `1_000u64`, `2.5e-3`).
	TokenNumber
	// TokenString is a string literal: plain, raw, byte, or raw byte
	// (`"x"`, `r#"x"#`, `b"x"`). Text keeps the quotes and escapes verbatim.
	TokenString
	// TokenChar is a character or byte-character literal (`'a'`, `b'\n'`).
	TokenChar
	// TokenPunct is an operator or punctuation token, possibly multi-character (`::`, `->`, `+=`).
	TokenPunct
	// TokenOpenDelim is an opening delimiter: `(`, `[` or `{`.
	TokenOpenDelim
	// TokenCloseDelim is a closing delimiter: `)`, `]` or `}`.
	TokenCloseDelim
	// TokenLineComment is a plain `//` comment (not a doc comment).
	TokenLineComment
	// TokenBlockComment is a plain `/* */` comment (not a doc comment).
	TokenBlockComment
	// TokenDocComment is an outer doc comment (`///` or `/** */`).
	TokenDocComment
	// TokenInnerDocComment is an inner doc comment (`//!` or `/*! */`).
	TokenInnerDocComment
)

type (
	// TokenKind classifies a lexical token.
	TokenKind int

	// Token is a single lexical token. Text is the exact source slice, so a
	// token sequence can always be re-emitted without information loss.
	Token struct {
		Kind TokenKind
		Text string
		// Line and Col locate the token start, both 1-based.
		Line int
		Col  int
	}

	// TokenRun is an ordered slice of tokens kept verbatim from the source.
	// Function bodies, type expressions and other positions the bundler does
	// not need to understand structurally are carried as token runs.
	TokenRun []Token

	// TokenizeError reports source text that could not be lexed.
	TokenizeError struct {
		// Path is the originating file, when known.
		Path string
		Line int
		Col  int
		Msg  string
	}
)

// Error implements the error interface.
func (e *TokenizeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d:%d: cannot tokenize: %s", e.Path, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: cannot tokenize: %s", e.Line, e.Col, e.Msg)
}

// IsComment reports whether the token is any comment form, doc or plain.
func (t Token) IsComment() bool {
	switch t.Kind {
	case TokenLineComment, TokenBlockComment, TokenDocComment, TokenInnerDocComment:
		return true
	default:
		return false
	}
}

// Is reports whether the token is punctuation or a delimiter with the given text.
func (t Token) Is(text string) bool {
	switch t.Kind {
	case TokenPunct, TokenOpenDelim, TokenCloseDelim:
		return t.Text == text
	default:
		return false
	}
}

// IsIdent reports whether the token is the identifier or keyword name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == TokenIdent && t.Text == name
}

// Clone returns a deep copy of the run.
func (r TokenRun) Clone() TokenRun {
	if r == nil {
		return nil
	}
	out := make(TokenRun, len(r))
	copy(out, r)
	return out
}

// matchingDelim returns the closing delimiter text for an opening one.
func matchingDelim(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	default:
		return ""
	}
}
