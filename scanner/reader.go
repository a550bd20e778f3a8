package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/token"
)

const bom = '\uFEFF'

// decode validates UTF-8 input and produces the rune stream the scanner
// works on. A leading byte order mark is stripped; one appearing later is
// left in place so the scanner can report it at its exact position. All
// line terminator forms (CRLF, CR, NEL, LS, PS) are normalized to a single
// line feed; terminators only ever end a line, so positions stay accurate.
func decode(src []byte) ([]rune, error) {
	out := make([]rune, 0, len(src))
	line, column := 1, 1
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			pos := &token.Position{Line: line, Column: column, Offset: len(out)}
			msg := fmt.Sprintf("invalid UTF-8 byte 0x%02x", src[i])
			return nil, errors.ErrSyntax(errors.InvalidUTF8, msg, token.Invalid(msg, string(out), pos))
		}
		i += size
		switch r {
		case bom:
			if len(out) == 0 {
				continue
			}
		case '\r':
			if i < len(src) && src[i] == '\n' {
				i++
			}
			r = '\n'
		case '\u0085', '\u2028', '\u2029':
			r = '\n'
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
		out = append(out, r)
	}
	return out, nil
}

func isBlank(c rune) bool {
	return c == ' ' || c == '\t'
}

func isBreak(c rune) bool {
	return c == '\n'
}

func isBlankz(c rune) bool {
	return isBlank(c) || isBreak(c) || c == 0
}

func isFlowIndicator(c rune) bool {
	switch c {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

func isAnchorChar(c rune) bool {
	return c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c == '-' || c == '_'
}

func isHex(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexValue(c rune) int {
	switch {
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return int(c - '0')
}

// isTagChar reports characters allowed inside tag shorthands and prefixes.
func isTagChar(c rune) bool {
	if isAnchorChar(c) {
		return true
	}
	switch c {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',',
		'.', '!', '~', '*', '\'', '(', ')', '%', '#':
		return true
	}
	return false
}
