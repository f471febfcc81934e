// SPDX-License-Identifier: MPL-2.0

package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// multiPuncts lists multi-character punctuation tokens, longest first, so the
// lexer can match greedily (`>>=` before `>>` before `>`).
var multiPuncts = []string{
	"<<=", ">>=", "..=", "...",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||",
	"<<", ">>", "+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "..",
}

// singlePuncts is the set of single-character punctuation tokens.
const singlePuncts = "+-*/%^&|!=<>.,;:#?@$~"

type lexer struct {
	src  string
	pos  int
	line int
	col  int
	path string
}

// Lex splits src into tokens, including comment tokens. It returns a
// *TokenizeError when the text cannot be lexed (unterminated literal or
// comment, or a byte no Rust token starts with).
func Lex(src string) ([]Token, error) {
	return LexFile(src, "")
}

// LexFile is Lex with a path recorded on any resulting TokenizeError.
func LexFile(src, path string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1, path: path}
	var toks []Token
	for {
		tok, ok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (lx *lexer) errorf(line, col int, msg string) error {
	return &TokenizeError{Path: lx.path, Line: line, Col: col, Msg: msg}
}

// advance moves past n bytes, tracking line/column.
func (lx *lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if lx.src[lx.pos+i] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
	}
	lx.pos += n
}

func (lx *lexer) rest() string {
	return lx.src[lx.pos:]
}

func (lx *lexer) peekByte(offset int) byte {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

// next returns the next token, or ok=false at end of input.
func (lx *lexer) next() (Token, bool, error) {
	// Skip whitespace.
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			lx.advance(1)
			continue
		}
		break
	}
	if lx.pos >= len(lx.src) {
		return Token{}, false, nil
	}

	startLine, startCol := lx.line, lx.col
	c := lx.src[lx.pos]

	mk := func(kind TokenKind, text string) (Token, bool, error) {
		return Token{Kind: kind, Text: text, Line: startLine, Col: startCol}, true, nil
	}

	switch {
	case c == '/' && lx.peekByte(1) == '/':
		text := lx.lexLineComment()
		kind := TokenLineComment
		if strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////") {
			kind = TokenDocComment
		} else if strings.HasPrefix(text, "//!") {
			kind = TokenInnerDocComment
		}
		return mk(kind, text)

	case c == '/' && lx.peekByte(1) == '*':
		text, err := lx.lexBlockComment(startLine, startCol)
		if err != nil {
			return Token{}, false, err
		}
		kind := TokenBlockComment
		if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/" {
			kind = TokenDocComment
		} else if strings.HasPrefix(text, "/*!") {
			kind = TokenInnerDocComment
		}
		return mk(kind, text)

	case c == '"':
		text, err := lx.lexString(startLine, startCol)
		if err != nil {
			return Token{}, false, err
		}
		return mk(TokenString, text)

	case c == 'r' && (lx.peekByte(1) == '"' || lx.peekByte(1) == '#'):
		if text, ok, err := lx.lexRawString(0, startLine, startCol); err != nil {
			return Token{}, false, err
		} else if ok {
			return mk(TokenString, text)
		}

	case c == 'b':
		switch lx.peekByte(1) {
		case '"':
			lx.advance(1)
			text, err := lx.lexString(startLine, startCol)
			if err != nil {
				return Token{}, false, err
			}
			return mk(TokenString, "b"+text)
		case '\'':
			lx.advance(1)
			text, err := lx.lexChar(startLine, startCol)
			if err != nil {
				return Token{}, false, err
			}
			return mk(TokenChar, "b"+text)
		case 'r':
			if text, ok, err := lx.lexRawString(1, startLine, startCol); err != nil {
				return Token{}, false, err
			} else if ok {
				return mk(TokenString, text)
			}
		}

	case c == '\'':
		text, isChar, err := lx.lexCharOrLifetime(startLine, startCol)
		if err != nil {
			return Token{}, false, err
		}
		if isChar {
			return mk(TokenChar, text)
		}
		return mk(TokenLifetime, text)
	}

	if isDigit(c) {
		return mk(TokenNumber, lx.lexNumber())
	}
	if isIdentStart(c) {
		return mk(TokenIdent, lx.lexIdent())
	}
	if r, _ := utf8.DecodeRuneInString(lx.rest()); r != utf8.RuneError && unicode.IsLetter(r) {
		return mk(TokenIdent, lx.lexIdent())
	}

	switch c {
	case '(', '[', '{':
		lx.advance(1)
		return mk(TokenOpenDelim, string(c))
	case ')', ']', '}':
		lx.advance(1)
		return mk(TokenCloseDelim, string(c))
	}

	for _, p := range multiPuncts {
		if strings.HasPrefix(lx.rest(), p) {
			lx.advance(len(p))
			return mk(TokenPunct, p)
		}
	}
	if strings.IndexByte(singlePuncts, c) >= 0 {
		lx.advance(1)
		return mk(TokenPunct, string(c))
	}

	return Token{}, false, lx.errorf(startLine, startCol, "unexpected character "+string(rune(c)))
}

func (lx *lexer) lexLineComment() string {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.advance(1)
	}
	return lx.src[start:lx.pos]
}

func (lx *lexer) lexBlockComment(line, col int) (string, error) {
	start := lx.pos
	lx.advance(2) // "/*"
	depth := 1
	for lx.pos < len(lx.src) {
		if strings.HasPrefix(lx.rest(), "/*") {
			depth++
			lx.advance(2)
			continue
		}
		if strings.HasPrefix(lx.rest(), "*/") {
			depth--
			lx.advance(2)
			if depth == 0 {
				return lx.src[start:lx.pos], nil
			}
			continue
		}
		lx.advance(1)
	}
	return "", lx.errorf(line, col, "unterminated block comment")
}

// lexString lexes a double-quoted string starting at the current `"`.
func (lx *lexer) lexString(line, col int) (string, error) {
	start := lx.pos
	lx.advance(1) // opening quote
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return "", lx.errorf(line, col, "unterminated string literal")
			}
			lx.advance(2)
		case '"':
			lx.advance(1)
			return lx.src[start:lx.pos], nil
		default:
			lx.advance(1)
		}
	}
	return "", lx.errorf(line, col, "unterminated string literal")
}

// lexRawString lexes r"..." / r#"..."# (or br variants when prefix is 1).
// ok=false means the text was not actually a raw string opener; the caller
// falls through to identifier lexing.
func (lx *lexer) lexRawString(prefix int, line, col int) (string, bool, error) {
	rest := lx.rest()
	i := prefix + 1 // past (b)r
	hashes := 0
	for i < len(rest) && rest[i] == '#' {
		hashes++
		i++
	}
	if i >= len(rest) || rest[i] != '"' {
		return "", false, nil
	}
	terminator := `"` + strings.Repeat("#", hashes)
	end := strings.Index(rest[i+1:], terminator)
	if end < 0 {
		return "", false, lx.errorf(line, col, "unterminated raw string literal")
	}
	total := i + 1 + end + len(terminator)
	text := rest[:total]
	lx.advance(total)
	return text, true, nil
}

func (lx *lexer) lexChar(line, col int) (string, error) {
	start := lx.pos
	lx.advance(1) // opening quote
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return "", lx.errorf(line, col, "unterminated character literal")
			}
			lx.advance(2)
		case '\'':
			lx.advance(1)
			return lx.src[start:lx.pos], nil
		case '\n':
			return "", lx.errorf(line, col, "unterminated character literal")
		default:
			lx.advance(1)
		}
	}
	return "", lx.errorf(line, col, "unterminated character literal")
}

// lexCharOrLifetime disambiguates `'a'` (char) from `'a` (lifetime): a quote
// followed by an identifier run is a lifetime unless the run is immediately
// closed by another quote.
func (lx *lexer) lexCharOrLifetime(line, col int) (string, bool, error) {
	rest := lx.rest()
	if len(rest) < 2 {
		return "", false, lx.errorf(line, col, "unterminated character literal")
	}
	if rest[1] == '\\' {
		text, err := lx.lexChar(line, col)
		return text, true, err
	}
	if isIdentStart(rest[1]) {
		i := 2
		for i < len(rest) && isIdentPart(rest[i]) {
			i++
		}
		if i < len(rest) && rest[i] == '\'' && i == 2 {
			text, err := lx.lexChar(line, col)
			return text, true, err
		}
		if i < len(rest) && rest[i] == '\'' {
			// Multi-character quoted run: not valid as either form.
			return "", false, lx.errorf(line, col, "invalid character literal")
		}
		text := rest[:i]
		lx.advance(i)
		return text, false, nil
	}
	text, err := lx.lexChar(line, col)
	return text, true, err
}

// lexNumber consumes an integer or float literal including underscores,
// radix prefixes, exponents and type suffixes. A `.` is part of the number
// only when followed by a digit, which keeps range expressions like `1..n`
// lexing as three tokens.
func (lx *lexer) lexNumber() string {
	start := lx.pos
	rest := lx.rest()
	i := 0
	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") ||
		strings.HasPrefix(rest, "0o") || strings.HasPrefix(rest, "0b") {
		i = 2
		for i < len(rest) && (isHexDigit(rest[i]) || rest[i] == '_') {
			i++
		}
	} else {
		for i < len(rest) && (isDigit(rest[i]) || rest[i] == '_') {
			i++
		}
		if i < len(rest) && rest[i] == '.' && i+1 < len(rest) && isDigit(rest[i+1]) {
			i++
			for i < len(rest) && (isDigit(rest[i]) || rest[i] == '_') {
				i++
			}
		}
		if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
			j := i + 1
			if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
				j++
			}
			if j < len(rest) && isDigit(rest[j]) {
				i = j
				for i < len(rest) && (isDigit(rest[i]) || rest[i] == '_') {
					i++
				}
			}
		}
	}
	// Type suffix (u32, f64, usize...).
	for i < len(rest) && isIdentPart(rest[i]) {
		i++
	}
	lx.advance(i)
	return lx.src[start : start+i]
}

func (lx *lexer) lexIdent() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isIdentPart(c) {
			lx.advance(1)
			continue
		}
		r, size := utf8.DecodeRuneInString(lx.rest())
		if r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			lx.advance(size)
			continue
		}
		break
	}
	return lx.src[start:lx.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
