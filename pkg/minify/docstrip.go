// SPDX-License-Identifier: MPL-2.0

package minify

import "strings"

// stripDocAttrs deletes `#[doc = ...]` and `#![doc = ...]` attribute runs
// from already-minified text. The declaration filter removes doc annotations
// it sees structurally; this textual pass catches the stragglers that
// surface as plain attribute syntax on re-parsed fragments. Only the
// `doc =` form is deleted; `#[doc(hidden)]` and friends are behavior, not
// documentation, and stay.
func stripDocAttrs(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); {
		// Literals are copied wholesale so a `#[doc` sequence inside one is
		// never mistaken for an attribute.
		if n := literalLen(text, i); n > 0 {
			sb.WriteString(text[i : i+n])
			i += n
			continue
		}
		if text[i] != '#' {
			sb.WriteByte(text[i])
			i++
			continue
		}
		end, ok := matchDocAttr(text, i)
		if !ok {
			sb.WriteByte(text[i])
			i++
			continue
		}
		i = end
		// Swallow one following space so deletion does not leave a double
		// separator behind.
		if i < len(text) && text[i] == ' ' {
			i++
		}
	}
	return sb.String()
}

// literalLen reports the byte length of the string, raw-string or character
// literal starting at offset i, or zero when i does not start one.
func literalLen(text string, i int) int {
	switch text[i] {
	case '"':
		return quotedLen(text, i)
	case '\'':
		// Only the char-literal forms that could contain a quote or hash
		// matter here; lifetimes have no closing quote and are left to the
		// plain scan.
		if i+2 < len(text) && text[i+1] == '\\' {
			// The escape payload at i+2 is consumed unconditionally, then
			// the scan resumes (further escapes included) until the close.
			for j := i + 3; j < len(text); {
				switch text[j] {
				case '\'':
					return j - i + 1
				case '\n':
					return 0
				case '\\':
					j += 2
				default:
					j++
				}
			}
			return 0
		}
		if i+2 < len(text) && text[i+2] == '\'' {
			return 3
		}
		return 0
	case 'r':
		j := i + 1
		hashes := 0
		for j < len(text) && text[j] == '#' {
			hashes++
			j++
		}
		if j >= len(text) || text[j] != '"' {
			return 0
		}
		terminator := `"` + strings.Repeat("#", hashes)
		end := strings.Index(text[j+1:], terminator)
		if end < 0 {
			return 0
		}
		return j + 1 + end + len(terminator) - i
	}
	return 0
}

// quotedLen measures a double-quoted string with escapes, starting at `"`.
func quotedLen(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j - i + 1
		}
	}
	return 0
}

// matchDocAttr matches a doc attribute starting at the `#` at offset start.
// On success it returns the offset one past the closing bracket.
func matchDocAttr(text string, start int) (int, bool) {
	i := start + 1 // past '#'
	if i < len(text) && text[i] == '!' {
		i++
	}
	i = skipSpace(text, i)
	if i >= len(text) || text[i] != '[' {
		return 0, false
	}
	i = skipSpace(text, i+1)
	if !strings.HasPrefix(text[i:], "doc") {
		return 0, false
	}
	i = skipSpace(text, i+3)
	if i >= len(text) || text[i] != '=' {
		return 0, false
	}
	i++

	// Scan to the matching `]` at depth zero, tracking string-literal and
	// escape state so brackets and quotes inside the doc text never
	// unbalance the scan.
	type scanState int
	const (
		normal scanState = iota
		inString
		escapePending
	)
	state := normal
	depth := 1
	for ; i < len(text); i++ {
		switch state {
		case escapePending:
			state = inString
		case inString:
			switch text[i] {
			case '\\':
				state = escapePending
			case '"':
				state = normal
			}
		default:
			switch text[i] {
			case '"':
				state = inString
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					return i + 1, true
				}
			}
		}
	}
	return 0, false // unterminated; leave the text alone
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}
