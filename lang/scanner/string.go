package scanner

import (
	"strconv"
	"strings"

	"github.com/mna/zero/lang/token"
)

// stringOrChar scans a short string or char literal: quote is the opening
// quote character, already consumed by the caller (s.cur is the first
// content rune).
func (s *Scanner) stringOrChar(quote byte, start token.Position) token.Tok {
	var sb strings.Builder
	terminated := false
	for {
		if s.cur == -1 || s.cur == '\n' {
			s.error(start, "unterminated string literal")
			break
		}
		if byte(s.cur) == quote {
			s.advance()
			terminated = true
			break
		}
		if s.cur == '\\' {
			s.advance()
			r, ok := s.escape(start)
			if ok {
				sb.WriteRune(r)
			}
			continue
		}
		sb.WriteRune(s.cur)
		s.advance()
	}

	raw := string(s.src[start.Offset:s.off])
	_ = terminated
	kind := token.STRING
	if quote == '\'' {
		kind = token.CHAR
	}
	return token.Tok{Kind: kind, Lexeme: raw, Start: start, End: s.pos(), Str: sb.String()}
}

// rawString scans a raw string literal r"..."/r'...': the opening quote has
// already been consumed by the caller (s.cur is the first content rune).
func (s *Scanner) rawString(quote byte, start token.Position) token.Tok {
	contentStart := s.off
	for {
		if s.cur == -1 || s.cur == '\n' {
			s.error(start, "unterminated raw string literal")
			break
		}
		if byte(s.cur) == quote {
			break
		}
		s.advance()
	}
	val := string(s.src[contentStart:s.off])
	s.advance() // consume closing quote
	return token.Tok{Kind: token.STRING, Lexeme: "r" + string(quote) + val + string(quote), Start: start, End: s.pos(), Str: val}
}

// escape decodes a single escape sequence, the leading backslash has
// already been consumed (s.cur is the character right after it). Returns
// the decoded rune and whether a value was produced (false on error,
// having already reported it).
func (s *Scanner) escape(start token.Position) (rune, bool) {
	c := s.cur
	switch c {
	case 'n':
		s.advance()
		return '\n', true
	case 't':
		s.advance()
		return '\t', true
	case 'r':
		s.advance()
		return '\r', true
	case '\\':
		s.advance()
		return '\\', true
	case '"':
		s.advance()
		return '"', true
	case '\'':
		s.advance()
		return '\'', true
	case '0':
		s.advance()
		return 0, true
	case 'x':
		s.advance()
		var digits [2]byte
		for i := range digits {
			if !isHex(s.cur) {
				s.error(start, "invalid \\x escape, expected two hexadecimal digits")
				return 0, false
			}
			digits[i] = byte(s.cur)
			s.advance()
		}
		v, _ := strconv.ParseInt(string(digits[:]), 16, 32)
		return rune(v), true
	case 'u':
		s.advance()
		if s.cur == '{' {
			s.advance()
			start2 := s.off
			for s.cur != '}' && s.cur != -1 {
				s.advance()
			}
			digits := string(s.src[start2:s.off])
			if s.cur != '}' {
				s.error(start, "unterminated \\u{...} escape")
				return 0, false
			}
			s.advance() // consume '}'
			v, err := strconv.ParseInt(digits, 16, 32)
			if err != nil || !validCodePoint(rune(v)) {
				s.error(start, "invalid unicode code point in \\u{...} escape")
				return 0, false
			}
			return rune(v), true
		}
		var digits [4]byte
		for i := range digits {
			if !isHex(s.cur) {
				s.error(start, "invalid \\u escape, expected four hexadecimal digits")
				return 0, false
			}
			digits[i] = byte(s.cur)
			s.advance()
		}
		v, _ := strconv.ParseInt(string(digits[:]), 16, 32)
		if !validCodePoint(rune(v)) {
			s.error(start, "invalid unicode code point in \\u escape")
			return 0, false
		}
		return rune(v), true
	default:
		s.errorf(start, "invalid escape sequence '\\%c'", c)
		if c != -1 {
			s.advance()
		}
		return 0, false
	}
}

func validCodePoint(r rune) bool {
	return r >= 0 && r <= 0x10FFFF && !(r >= 0xD800 && r <= 0xDFFF)
}
